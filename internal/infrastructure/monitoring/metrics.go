package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Publish results
const (
	PublishOK      = "ok"
	PublishFailed  = "failed"
	PublishDropped = "dropped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Tracer metrics
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec

	// Channel metrics
	PublishTotal *prometheus.CounterVec
	GateState    *prometheus.GaugeVec

	// Reader metrics
	LinesTotal   *prometheus.CounterVec
	ReopensTotal prometheus.Counter

	registry *prometheus.Registry

	// Snapshot for the shutdown summary - track current values
	snapshot Snapshot
	mu       sync.Mutex
}

// Snapshot holds current metric values for logging
type Snapshot struct {
	Calls     int64
	Failures  int64
	Published int64
	Failed    int64
	Dropped   int64
	Lines     int64
	Reopens   int64
}

// NewMetrics creates a metrics collector backed by its own registry, so
// several collectors can coexist in one process (tests, embedded use).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipetrace_calls_total",
				Help: "Total number of traced invocations",
			},
			[]string{"function", "outcome"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipetrace_call_duration_seconds",
				Help:    "Traced invocation duration in seconds",
				Buckets: []float64{.0001, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"function"},
		),
		PublishTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipetrace_publish_total",
				Help: "Trace lines offered to the FIFO, by result",
			},
			[]string{"result"},
		),
		GateState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pipetrace_reader_gate_state",
				Help: "Reader presence gate state (1 for the current state)",
			},
			[]string{"state"},
		),
		LinesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipetrace_reader_lines_total",
				Help: "Lines displayed by the reader, by style",
			},
			[]string{"style"},
		),
		ReopensTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pipetrace_reader_reopens_total",
				Help: "Number of times the reader reopened the FIFO",
			},
		),
	}
}

// Registry returns the registry the metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCall records a finished traced invocation
func (m *Metrics) RecordCall(function, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(function, outcome).Inc()
	m.CallDuration.WithLabelValues(function).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Calls++
	if outcome != "ok" {
		m.snapshot.Failures++
	}
	m.mu.Unlock()
}

// RecordPublish records the result of one publish
func (m *Metrics) RecordPublish(result string) {
	if m == nil {
		return
	}
	m.PublishTotal.WithLabelValues(result).Inc()

	m.mu.Lock()
	switch result {
	case PublishOK:
		m.snapshot.Published++
	case PublishFailed:
		m.snapshot.Failed++
	case PublishDropped:
		m.snapshot.Dropped++
	}
	m.mu.Unlock()
}

// SetGateState marks state as the current gate state among states
func (m *Metrics) SetGateState(state string, states ...string) {
	if m == nil {
		return
	}
	for _, s := range states {
		m.GateState.WithLabelValues(s).Set(0)
	}
	m.GateState.WithLabelValues(state).Set(1)
}

// RecordLine records a line shown by the reader
func (m *Metrics) RecordLine(style string) {
	if m == nil {
		return
	}
	m.LinesTotal.WithLabelValues(style).Inc()

	m.mu.Lock()
	m.snapshot.Lines++
	m.mu.Unlock()
}

// IncReopens increments the reader reopen counter
func (m *Metrics) IncReopens() {
	if m == nil {
		return
	}
	m.ReopensTotal.Inc()

	m.mu.Lock()
	m.snapshot.Reopens++
	m.mu.Unlock()
}

// Snapshot returns a copy of the current values
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}
