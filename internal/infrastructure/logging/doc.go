// Package logging provides structured logging using uber/zap.
//
// This is the local diagnostic log of a traced program. Every trace event
// that goes to the FIFO is also written here, along with channel lifecycle
// messages and publish failures.
//
// Two modes:
//   - Development: console output, "2006-01-02 15:04:05 [INFO] message"
//   - Production: JSON output for machine parsing
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Created FIFO", zap.String("path", path))
//	logger.Error("Failed to write to FIFO", zap.Error(err))
package logging
