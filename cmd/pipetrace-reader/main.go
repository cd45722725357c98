package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/config"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pipetrace/internal/reader"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(logging.ConfigFor(cfg.Logging.Development, cfg.Logging.Level, cfg.Logging.OutputPaths))
	if err != nil {
		logger = logging.NewDefault()
	}
	defer logger.Sync()

	mode, err := reader.ParseColorMode(cfg.Reader.Color)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var metrics *monitoring.Metrics
	if cfg.Metrics.Addr != "" {
		metrics = monitoring.NewMetrics()
		go serveMetrics(cfg.Metrics.Addr, metrics, logger)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := cfg.Channel.Path
	r := reader.New(reader.NewFIFOSource(path), os.Stdout, reader.Options{
		ReopenDelay: cfg.Reader.ReopenDelay,
		Color:       reader.UseColor(mode, os.Stdout),
		Logger:      logger,
		Metrics:     metrics,
		OnTransition: func(from, to reader.State) {
			if from == reader.StateWaitForChannel && to == reader.StateOpen {
				fmt.Printf("Reading from FIFO: %s\n", path)
				fmt.Println("Press Ctrl+C to exit")
			}
		},
	})

	err = r.Run(ctx)
	switch {
	case errors.Is(err, reader.ErrChannelMissing):
		fmt.Printf("Error: FIFO %s does not exist.\n", path)
		fmt.Println("Make sure pipetrace is running first.")
		return 1
	case err != nil:
		fmt.Printf("Error reading from FIFO: %v\n", err)
		return 1
	}

	fmt.Println("\nExiting FIFO reader...")
	return 0
}

func serveMetrics(addr string, metrics *monitoring.Metrics, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	logger.Info("Serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server failed", zap.Error(err))
	}
}
