//go:build unix

package reader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func makeFIFO(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace_fifo")
	require.NoError(t, unix.Mkfifo(path, 0o600))
	return path
}

// writeSession writes lines as one producer session and closes the FIFO
func writeSession(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
}

func TestFIFOSourceExists(t *testing.T) {
	path := makeFIFO(t)
	assert.True(t, NewFIFOSource(path).Exists())
	assert.False(t, NewFIFOSource(path+".missing").Exists())
}

func TestReaderFollowsFIFO(t *testing.T) {
	path := makeFIFO(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	r := New(NewFIFOSource(path), out, Options{ReopenDelay: 5 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	writeSession(t, path, "ENTER: f from main (main.go:3)")
	writeSession(t, path, "EXIT: f (elapsed: 0.0010s) - Success")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "← EXIT: f")
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t,
		"→ ENTER: f from main (main.go:3)\n← EXIT: f (elapsed: 0.0010s) - Success\n",
		out.String())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop")
	}
}

func TestFIFOOpenCancelled(t *testing.T) {
	path := makeFIFO(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := NewFIFOSource(path).Open(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("open did not return after cancellation")
	}
}

func TestReaderInterruptedWhileWaitingForWriter(t *testing.T) {
	path := makeFIFO(t)
	ctx, cancel := context.WithCancel(context.Background())

	r := New(NewFIFOSource(path), &syncBuffer{}, Options{})
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return r.State() == StateOpen
	}, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop while blocked in open")
	}
	assert.Equal(t, StateInterrupted, r.State())
}

func TestReaderMissingFIFO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent")
	err := New(NewFIFOSource(path), &syncBuffer{}, Options{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrChannelMissing)
}

func TestUseColorDetectsTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pseudo-terminal unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	assert.True(t, UseColor(ColorAuto, tty))
	assert.False(t, UseColor(ColorNever, tty))

	file, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer file.Close()
	assert.False(t, UseColor(ColorAuto, file))
}

func TestFIFOSourceIgnoresRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not_a_fifo")
	require.NoError(t, os.WriteFile(path, []byte("ENTER: stale from main (main.go:1)\n"), 0o600))

	src := NewFIFOSource(path)
	assert.False(t, src.Exists())

	out := &syncBuffer{}
	err := New(src, out, Options{ReopenDelay: time.Millisecond}).Run(context.Background())
	assert.ErrorIs(t, err, ErrChannelMissing)
	assert.Empty(t, out.String())
}

func TestFIFOOpenNoticesReplacement(t *testing.T) {
	tests := []struct {
		name     string
		recreate bool
	}{
		{"removed", false},
		{"recreated", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := makeFIFO(t)
			src := &FIFOSource{Path: path, PollInterval: 10 * time.Millisecond}

			done := make(chan error, 1)
			go func() {
				rc, err := src.Open(context.Background())
				if rc != nil {
					rc.Close()
				}
				done <- err
			}()

			time.Sleep(30 * time.Millisecond)
			require.NoError(t, os.Remove(path))
			if tt.recreate {
				require.NoError(t, unix.Mkfifo(path, 0o600))
			}

			select {
			case err := <-done:
				assert.ErrorIs(t, err, ErrChannelReplaced)
			case <-time.After(5 * time.Second):
				t.Fatal("open stayed on the old FIFO")
			}
		})
	}
}

// attachWriter opens path for writing once a reader holds it
func attachWriter(t *testing.T, path string) *os.File {
	t.Helper()
	var w *os.File
	require.Eventually(t, func() bool {
		f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			return false
		}
		w = f
		return true
	}, 5*time.Second, 10*time.Millisecond, "no reader attached to %s", path)
	return w
}

func TestReaderFollowsRecreatedFIFO(t *testing.T) {
	path := makeFIFO(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	src := &FIFOSource{Path: path, PollInterval: 10 * time.Millisecond}
	r := New(src, out, Options{ReopenDelay: 5 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	w := attachWriter(t, path)
	_, err := w.WriteString("ENTER: first from main (main.go:1)\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "ENTER: first")
	}, 5*time.Second, 5*time.Millisecond)

	// Idle long enough for the reader to be waiting in open, then restart
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.Remove(path))
	require.NoError(t, unix.Mkfifo(path, 0o600))

	w = attachWriter(t, path)
	_, err = w.WriteString("ENTER: second from main (main.go:2)\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "ENTER: second")
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop")
	}
}
