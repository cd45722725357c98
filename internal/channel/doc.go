// Package channel manages the named pipe trace lines travel through.
//
// The Manager creates the FIFO when the producer starts, removes it when the
// producer exits, and offers a single best-effort Publish operation. Each
// publish is a complete open/write/close cycle, so a reader sees
// end-of-stream after every line and reopens.
//
// Publishing must never hurt the traced program. A FIFO cannot be opened for
// writing while nobody reads it, so Publish opens it non-blocking and a Gate
// remembers whether a reader was recently seen:
//
//	probing  --ok-->   attached   (publishes may wait up to OpenTimeout)
//	probing  --fail--> detached   (publishes are dropped)
//	attached --fail--> detached
//	detached --ProbeInterval--> probing
//
// Several producer processes sharing one path are not coordinated. Lines up
// to PIPE_BUF bytes are written atomically by the kernel, longer lines from
// different processes may interleave.
package channel
