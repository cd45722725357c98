/*
Package monitoring provides Prometheus metrics for traced programs and the
stream reader.

# Metrics

  - pipetrace_calls_total{function,outcome}: traced invocations
  - pipetrace_call_duration_seconds{function}: invocation latency
  - pipetrace_publish_total{result}: lines offered to the FIFO (ok, failed, dropped)
  - pipetrace_reader_gate_state{state}: reader presence gate
  - pipetrace_reader_lines_total{style}: lines displayed by the reader
  - pipetrace_reader_reopens_total: FIFO reopen count

A nil *Metrics is valid and records nothing.

# Usage

	metrics := monitoring.NewMetrics()
	http.Handle("/metrics", metrics.Handler())

	metrics.RecordCall("process_data", "ok", elapsed)
	metrics.RecordPublish(monitoring.PublishDropped)
*/
package monitoring
