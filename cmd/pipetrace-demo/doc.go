// Package main is a small traced program that exercises pipetrace.
//
// It creates the FIFO, runs a few traced functions (one of which fails at
// random) and removes the FIFO on exit. Watch it from another terminal with
// pipetrace-reader or cat.
//
// Set PIPETRACE_METRICS_ADDR to expose Prometheus metrics while it runs.
package main
