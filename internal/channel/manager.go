package channel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tebeka/atexit"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/config"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/monitoring"
)

var (
	// ErrNotFIFO is returned when the channel path exists but is not a named pipe
	ErrNotFIFO = errors.New("path exists and is not a FIFO")
	// ErrNoReader is returned when nobody has the FIFO open for reading
	ErrNoReader = errors.New("no reader attached to FIFO")
)

// openPollInterval is how often an attached-state publish retries the open
// while the reader is between sessions.
const openPollInterval = 10 * time.Millisecond

// Stats counts publish outcomes
type Stats struct {
	Published uint64
	Failed    uint64
	Dropped   uint64
}

// Manager owns one FIFO: it creates it, publishes lines into it and removes
// it again. Publishes are serialized within the process so every line is
// written whole; writers in other processes are not coordinated.
type Manager struct {
	path         string
	mode         os.FileMode
	openTimeout  time.Duration
	writeTimeout time.Duration

	logger     *logging.Logger
	metrics    *monitoring.Metrics
	gate       *Gate
	failureLog rate.Sometimes

	mu           sync.Mutex
	registerOnce sync.Once

	published atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a manager for the configured FIFO. Nothing touches the
// filesystem until Ensure or Open.
func New(ch config.ChannelConfig, pub config.PublishConfig, logger *logging.Logger, metrics *monitoring.Metrics) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	mode := ch.FileMode()
	if mode == 0 {
		mode = 0o600
	}

	m := &Manager{
		path:         ch.Path,
		mode:         mode,
		openTimeout:  pub.OpenTimeout,
		writeTimeout: pub.WriteTimeout,
		logger:       logger,
		metrics:      metrics,
		failureLog:   rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}

	m.gate = NewGate(GateSettings{
		MaxFailures:   pub.MaxFailures,
		ProbeInterval: pub.ProbeInterval,
		OnStateChange: m.onGateChange,
	})
	metrics.SetGateState(GateProbing.String(), gateStates...)

	return m
}

// Path returns the FIFO path
func (m *Manager) Path() string {
	return m.path
}

// Gate returns the reader presence gate
func (m *Manager) Gate() *Gate {
	return m.gate
}

// Open ensures the FIFO exists and registers Teardown to run at process exit.
func (m *Manager) Open() error {
	if err := m.Ensure(); err != nil {
		return err
	}
	m.registerOnce.Do(func() {
		atexit.Register(m.Teardown)
	})
	return nil
}

// Close removes the FIFO. It is safe to call more than once.
func (m *Manager) Close() error {
	m.Teardown()
	return nil
}

// Ensure creates the FIFO if it does not exist. Calling it again is a no-op.
func (m *Manager) Ensure() error {
	info, err := os.Stat(m.path)
	if err == nil {
		if info.Mode()&fs.ModeNamedPipe == 0 {
			return fmt.Errorf("%w: %s", ErrNotFIFO, m.path)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat FIFO %s: %w", m.path, err)
	}

	if err := mkfifo(m.path, m.mode); err != nil {
		// Lost a race with another creator; fine as long as it is a FIFO.
		if errors.Is(err, fs.ErrExist) {
			return m.Ensure()
		}
		m.logger.Error("Failed to create FIFO", zap.String("path", m.path), zap.Error(err))
		return fmt.Errorf("failed to create FIFO %s: %w", m.path, err)
	}

	m.logger.Info("Created FIFO at "+m.path, zap.String("path", m.path))
	return nil
}

// Teardown removes the FIFO if it exists. Failures are logged only; a
// non-FIFO object at the path is left alone.
func (m *Manager) Teardown() {
	info, err := os.Stat(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		m.logger.Error("Failed to remove FIFO", zap.String("path", m.path), zap.Error(err))
		return
	}
	if info.Mode()&fs.ModeNamedPipe == 0 {
		m.logger.Warn("Refusing to remove non-FIFO path", zap.String("path", m.path))
		return
	}

	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Error("Failed to remove FIFO", zap.String("path", m.path), zap.Error(err))
		return
	}
	m.logger.Info("Removed FIFO at "+m.path, zap.String("path", m.path))
}

// Publish writes one line to the FIFO. It never fails: errors are counted,
// logged (sampled) and swallowed.
func (m *Manager) Publish(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	attempt, wait := m.gate.Allow()
	if !attempt {
		m.dropped.Add(1)
		m.metrics.RecordPublish(monitoring.PublishDropped)
		return
	}

	err := m.write(line, wait)
	m.gate.Record(err == nil)
	if err != nil {
		m.failed.Add(1)
		m.metrics.RecordPublish(monitoring.PublishFailed)
		m.failureLog.Do(func() {
			m.logger.Error("Failed to write to FIFO", zap.String("path", m.path), zap.Error(err))
		})
		return
	}

	m.published.Add(1)
	m.metrics.RecordPublish(monitoring.PublishOK)
}

// Stats returns publish counters
func (m *Manager) Stats() Stats {
	return Stats{
		Published: m.published.Load(),
		Failed:    m.failed.Load(),
		Dropped:   m.dropped.Load(),
	}
}

// write performs one open/write/close cycle
func (m *Manager) write(line string, wait bool) error {
	f, err := m.openForWrite(wait)
	if err != nil {
		return err
	}

	if m.writeTimeout > 0 {
		_ = f.SetWriteDeadline(time.Now().Add(m.writeTimeout))
	}

	_, werr := f.WriteString(line + "\n")
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close: %w", cerr)
	}
	return nil
}

// openForWrite opens the FIFO; when wait is set it keeps retrying for up to
// the open timeout while no reader is attached.
func (m *Manager) openForWrite(wait bool) (*os.File, error) {
	deadline := time.Now().Add(m.openTimeout)
	for {
		f, err := openWriter(m.path)
		if err == nil {
			return f, nil
		}
		if !wait || !errors.Is(err, ErrNoReader) || !time.Now().Before(deadline) {
			return nil, fmt.Errorf("open: %w", err)
		}
		time.Sleep(openPollInterval)
	}
}

func (m *Manager) onGateChange(from, to GateState) {
	m.metrics.SetGateState(to.String(), gateStates...)

	switch {
	case to == GateAttached:
		m.logger.Info("Reader attached", zap.String("path", m.path))
	case from == GateAttached:
		m.logger.Info("Reader detached, dropping trace lines until it returns", zap.String("path", m.path))
	}
}
