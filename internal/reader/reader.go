package reader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pipetrace/internal/event"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/monitoring"
)

// ErrChannelMissing is returned when no FIFO exists at startup
var ErrChannelMissing = errors.New("channel does not exist")

// DefaultReopenDelay is the pause between end-of-stream and the next open
const DefaultReopenDelay = 100 * time.Millisecond

// maxLineSize bounds a single trace line
const maxLineSize = 1 << 20

// Options configures a Reader
type Options struct {
	ReopenDelay time.Duration
	Color       bool
	Logger      *logging.Logger
	Metrics     *monitoring.Metrics
	// OnTransition is called synchronously on every state change
	OnTransition func(from, to State)
}

// Reader streams lines from a Source to a writer
type Reader struct {
	source Source
	out    io.Writer
	opts   Options

	mu    sync.RWMutex
	state State
}

// New creates a reader writing rendered lines to out
func New(source Source, out io.Writer, opts Options) *Reader {
	if opts.ReopenDelay <= 0 {
		opts.ReopenDelay = DefaultReopenDelay
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Reader{
		source: source,
		out:    out,
		opts:   opts,
		state:  StateWaitForChannel,
	}
}

// State returns the current state
func (r *Reader) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Run drives the state machine until ctx is cancelled or an error ends it.
// Cancellation is a normal stop and returns nil. A missing channel at
// startup returns ErrChannelMissing.
func (r *Reader) Run(ctx context.Context) error {
	if !r.source.Exists() {
		r.transition(StateFailed)
		return ErrChannelMissing
	}

	for {
		if ctx.Err() != nil {
			return r.interrupt()
		}

		r.transition(StateOpen)
		rc, err := r.source.Open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return r.interrupt()
			}
			if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ErrChannelReplaced) {
				r.transition(StateFailed)
				return fmt.Errorf("failed to open channel: %w", err)
			}
			r.opts.Logger.Info("FIFO went away while waiting for a writer, reopening")
		} else {
			r.transition(StateStreaming)
			err = r.stream(ctx, rc)
			if ctx.Err() != nil {
				return r.interrupt()
			}
			if err != nil {
				r.transition(StateFailed)
				return fmt.Errorf("failed to read channel: %w", err)
			}
		}

		r.transition(StateReopen)
		r.opts.Metrics.IncReopens()
		if !r.awaitChannel(ctx) {
			return r.interrupt()
		}
	}
}

// stream copies one session to the output. Cancellation closes rc, which
// unblocks a pending read.
func (r *Reader) stream(ctx context.Context, rc io.ReadCloser) error {
	stop := context.AfterFunc(ctx, func() {
		rc.Close()
	})
	defer func() {
		if stop() {
			rc.Close()
		}
	}()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		style := event.Classify(line)
		if _, err := fmt.Fprintln(r.out, event.Render(line, style, r.opts.Color)); err != nil {
			return err
		}
		r.opts.Metrics.RecordLine(style.String())
	}
	return scanner.Err()
}

// awaitChannel sleeps ReopenDelay, then keeps sleeping while the channel is
// absent. It reports false when ctx is cancelled.
func (r *Reader) awaitChannel(ctx context.Context) bool {
	logged := false
	for {
		if !sleep(ctx, r.opts.ReopenDelay) {
			return false
		}
		if r.source.Exists() {
			return true
		}
		if !logged {
			r.opts.Logger.Info("Waiting for FIFO to reappear")
			logged = true
		}
	}
}

func (r *Reader) interrupt() error {
	r.transition(StateInterrupted)
	return nil
}

func (r *Reader) transition(to State) {
	r.mu.Lock()
	from := r.state
	r.state = to
	r.mu.Unlock()

	if from == to {
		return
	}
	r.opts.Logger.Debug("Reader state changed",
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	if r.opts.OnTransition != nil {
		r.opts.OnTransition(from, to)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
