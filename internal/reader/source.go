package reader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"
)

// ErrChannelReplaced is returned by Open when the FIFO at the path was
// removed or replaced while waiting for a writer
var ErrChannelReplaced = errors.New("channel was replaced while waiting for a writer")

// DefaultPollInterval is how often a waiting open checks the FIFO is still
// the one at the path
const DefaultPollInterval = 100 * time.Millisecond

// Source is where the reader gets its stream from. Open may block until a
// producer connects and must return promptly once ctx is cancelled.
type Source interface {
	Exists() bool
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FIFOSource reads a named pipe on the local filesystem
type FIFOSource struct {
	Path         string
	PollInterval time.Duration
}

// NewFIFOSource creates a source for the FIFO at path
func NewFIFOSource(path string) *FIFOSource {
	return &FIFOSource{Path: path, PollInterval: DefaultPollInterval}
}

// Exists reports whether a FIFO is at the path. Other file types do not
// count, so a stray regular file is never replayed as a trace.
func (s *FIFOSource) Exists() bool {
	info, err := os.Stat(s.Path)
	return err == nil && info.Mode()&fs.ModeNamedPipe != 0
}

// Open opens the FIFO for reading, waiting for a writer
func (s *FIFOSource) Open(ctx context.Context) (io.ReadCloser, error) {
	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	f, err := openReader(ctx, s.Path, interval)
	if err != nil {
		return nil, err
	}
	return f, nil
}
