package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/config"
	"github.com/GriffinCanCode/pipetrace/internal/producer"
)

func main() {
	atexit.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	p, err := producer.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start pipetrace: %v\n", err)
		return 1
	}
	defer p.Close()

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(p)}
		go func() {
			p.Logger().Info("Serving metrics", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.Logger().Error("Metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	seed := uint64(time.Now().UnixNano())
	d := newDemo(p.Tracer(), p.Logger(), rand.New(rand.NewPCG(seed, seed>>1)))
	if err := d.main(); err != nil {
		return 1
	}
	return 0
}

func metricsMux(p *producer.Producer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.MetricsHandler())
	return mux
}
