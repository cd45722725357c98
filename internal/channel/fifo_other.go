//go:build !unix

package channel

import (
	"errors"
	"os"
)

var errUnsupported = errors.New("named pipes are not supported on this platform")

func mkfifo(string, os.FileMode) error {
	return errUnsupported
}

func openWriter(string) (*os.File, error) {
	return nil, errUnsupported
}
