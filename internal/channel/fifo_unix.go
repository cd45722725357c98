//go:build unix

package channel

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func mkfifo(path string, mode os.FileMode) error {
	return unix.Mkfifo(path, uint32(mode.Perm()))
}

// openWriter opens the FIFO for writing without blocking. With no reader
// attached the kernel refuses with ENXIO, reported as ErrNoReader.
func openWriter(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, unix.ENXIO) {
			return nil, ErrNoReader
		}
		return nil, err
	}
	return f, nil
}
