// Package config provides 12-factor configuration for pipetrace.
//
// Configuration is loaded from environment variables with sensible defaults.
// A YAML or TOML file named by PIPETRACE_CONFIG is applied on top, so values
// in the file win over the environment.
//
// Configuration Sections:
//   - Channel: FIFO path and permissions
//   - Publish: open/write timeouts and reader-presence probing
//   - Reader: reopen delay and color mode
//   - Trace: function include patterns
//   - Logging: log level and output format
//   - Metrics: optional Prometheus listen address
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Tracing to %s\n", cfg.Channel.Path)
//
// Environment Variables:
//   - PIPETRACE_FIFO, PIPETRACE_FIFO_MODE
//   - PIPETRACE_OPEN_TIMEOUT, PIPETRACE_WRITE_TIMEOUT
//   - PIPETRACE_PROBE_INTERVAL, PIPETRACE_MAX_FAILURES
//   - PIPETRACE_REOPEN_DELAY, PIPETRACE_COLOR
//   - PIPETRACE_INCLUDE
//   - PIPETRACE_LOG_LEVEL, PIPETRACE_LOG_DEV, PIPETRACE_LOG_OUTPUT
//   - PIPETRACE_METRICS_ADDR, PIPETRACE_CONFIG
package config
