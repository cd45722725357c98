//go:build unix

package reader

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// openReader opens the FIFO read side without blocking, then polls until a
// writer connects. Between polls it checks the path still names the FIFO it
// holds: a producer that exits removes its FIFO and the next one creates a
// new one at the same path, which an open on the old inode would never see.
func openReader(ctx context.Context, path string, interval time.Duration) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}

	var held unix.Stat_t
	if err := unix.Fstat(fd, &held); err != nil {
		unix.Close(fd)
		return nil, &os.PathError{Op: "fstat", Path: path, Err: err}
	}

	timeout := int(interval / time.Millisecond)
	if timeout <= 0 {
		timeout = 1
	}

	for {
		if err := ctx.Err(); err != nil {
			unix.Close(fd)
			return nil, err
		}

		// POLLIN once a writer has written, POLLHUP once one came and went.
		// A FIFO that never had a writer reports neither.
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, timeout)
		if err != nil && !errors.Is(err, unix.EINTR) {
			unix.Close(fd)
			return nil, &os.PathError{Op: "poll", Path: path, Err: err}
		}
		if n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0 {
			// Nonblocking, so reads go through the runtime poller and Close
			// interrupts them.
			return os.NewFile(uintptr(fd), path), nil
		}

		if !sameFIFO(path, &held) {
			unix.Close(fd)
			return nil, ErrChannelReplaced
		}
	}
}

func sameFIFO(path string, held *unix.Stat_t) bool {
	var cur unix.Stat_t
	if err := unix.Stat(path, &cur); err != nil {
		return false
	}
	return cur.Mode&unix.S_IFMT == unix.S_IFIFO && cur.Dev == held.Dev && cur.Ino == held.Ino
}
