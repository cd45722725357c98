package tracer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pipetrace/internal/event"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pipetrace/internal/shared/id"
)

// Call outcomes reported to metrics
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomePanic = "panic"
)

// Publisher receives formatted trace lines. Implementations must not fail
// the caller; the channel manager swallows its own errors.
type Publisher interface {
	Publish(line string)
}

// Tracer emits entry and exit events around function calls
type Tracer struct {
	publisher Publisher
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	filter    *Filter
	ids       *id.Generator
	now       func() time.Time
}

// Option configures a Tracer
type Option func(*Tracer)

// WithMetrics records call counts and durations
func WithMetrics(m *monitoring.Metrics) Option {
	return func(t *Tracer) {
		t.metrics = m
	}
}

// WithFilter restricts tracing to functions matching the filter
func WithFilter(f *Filter) Option {
	return func(t *Tracer) {
		t.filter = f
	}
}

// WithClock replaces the time source. It must be monotonic.
func WithClock(now func() time.Time) Option {
	return func(t *Tracer) {
		t.now = now
	}
}

// New creates a tracer that logs every event and hands it to publisher.
// A nil publisher makes a log-only tracer.
func New(publisher Publisher, logger *logging.Logger, opts ...Option) *Tracer {
	if logger == nil {
		logger = logging.NewNop()
	}

	t := &Tracer{
		publisher: publisher,
		logger:    logger,
		ids:       id.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Call runs fn as a traced invocation of name made from caller. The error
// returned by fn is returned unchanged; a panic in fn is recorded and
// re-raised with the same value. A nil Tracer just runs fn.
func (t *Tracer) Call(name string, caller event.Caller, fn func() error) (err error) {
	if t == nil || !t.filter.Match(name) {
		return fn()
	}

	callID := t.ids.NewCallID().String()
	t.emit(event.NewEntry(callID, name, caller))

	start := t.now()
	defer func() {
		elapsed := t.now().Sub(start)

		if r := recover(); r != nil {
			t.emit(event.NewExit(callID, name, elapsed, panicTypeName(r), panicError(r)))
			t.metrics.RecordCall(name, OutcomePanic, elapsed)
			panic(r)
		}

		if err != nil {
			t.emit(event.NewExit(callID, name, elapsed, TypeName(err), err))
			t.metrics.RecordCall(name, OutcomeError, elapsed)
			return
		}

		t.emit(event.NewExit(callID, name, elapsed, "", nil))
		t.metrics.RecordCall(name, OutcomeOK, elapsed)
	}()

	return fn()
}

// emit writes one event to the local log and the publisher
func (t *Tracer) emit(e event.Event) {
	line := event.Format(e)

	fields := []zap.Field{
		zap.String("call_id", e.CallID),
		zap.String("function", e.Function),
	}
	if e.Kind == event.ExitErr {
		t.logger.Error(line, fields...)
	} else {
		t.logger.Info(line, fields...)
	}

	if t.publisher != nil {
		t.publisher.Publish(line)
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

func panicTypeName(r any) string {
	if err, ok := r.(error); ok {
		return TypeName(err)
	}
	return "panic"
}
