// Package main is the pipetrace reader: it follows the trace FIFO and
// prints each line with a direction arrow, colored by outcome.
//
// The reader takes no flags. It is configured through the environment:
//
//	PIPETRACE_FIFO          FIFO path (default /tmp/pipetrace_fifo)
//	PIPETRACE_REOPEN_DELAY  pause before reopening after a writer closes
//	PIPETRACE_COLOR         auto, always or never
//	PIPETRACE_CONFIG        optional YAML or TOML file applied on top
//	PIPETRACE_METRICS_ADDR  serve Prometheus metrics on this address
//
// Usage:
//
//	# terminal 1
//	pipetrace-demo
//
//	# terminal 2
//	pipetrace-reader
//
// Signals:
//   - SIGINT, SIGTERM: print "Exiting FIFO reader..." and exit 0
package main
