//go:build !unix

package reader

import (
	"context"
	"os"
	"time"
)

func openReader(ctx context.Context, path string, _ time.Duration) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(path)
}
