package producer

import (
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pipetrace/internal/channel"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/config"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pipetrace/internal/tracer"
)

// Producer owns the tracing pipeline of a traced program
type Producer struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	channel *channel.Manager
	tracer  *tracer.Tracer

	closeOnce sync.Once
}

// Option customizes a Producer
type Option func(*options)

type options struct {
	logger *logging.Logger
}

// WithLogger uses logger instead of building one from the config
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds the pipeline and creates the FIFO. A nil cfg uses defaults.
// The FIFO is removed again by Close or at exit via atexit.
func New(cfg *config.Config, opts ...Option) (*Producer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.ConfigFor(cfg.Logging.Development, cfg.Logging.Level, cfg.Logging.OutputPaths))
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	filter, err := tracer.NewFilter(cfg.Trace.Include)
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	manager := channel.New(cfg.Channel, cfg.Publish, logger, metrics)
	if err := manager.Open(); err != nil {
		logger.Error("Failed to create FIFO", zap.String("path", manager.Path()), zap.Error(err))
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	p := &Producer{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		channel: manager,
		tracer:  tracer.New(manager, logger, tracer.WithMetrics(metrics), tracer.WithFilter(filter)),
	}

	logger.Info("Pipetrace is ready.")
	logger.Info(p.Instructions())
	return p, nil
}

// Tracer returns the call tracer
func (p *Producer) Tracer() *tracer.Tracer {
	return p.tracer
}

// Logger returns the local logger
func (p *Producer) Logger() *logging.Logger {
	return p.logger
}

// Channel returns the FIFO manager
func (p *Producer) Channel() *channel.Manager {
	return p.channel
}

// Metrics returns the collector shared by tracer and channel
func (p *Producer) Metrics() *monitoring.Metrics {
	return p.metrics
}

// MetricsHandler exposes the metrics over HTTP
func (p *Producer) MetricsHandler() http.Handler {
	return p.metrics.Handler()
}

// Instructions tells the operator how to watch the trace
func (p *Producer) Instructions() string {
	return fmt.Sprintf("Use 'cat %s' or pipetrace-reader in another terminal to view traces.", p.channel.Path())
}

// Close removes the FIFO and logs a summary. It is safe to call twice.
func (p *Producer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.channel.Close()

		snap := p.metrics.Snapshot()
		p.logger.Info("Trace summary",
			zap.Int64("calls", snap.Calls),
			zap.Int64("failures", snap.Failures),
			zap.Int64("published", snap.Published),
			zap.Int64("dropped", snap.Dropped),
			zap.Int64("write_failures", snap.Failed))
		_ = p.logger.Sync()
	})
	return err
}
