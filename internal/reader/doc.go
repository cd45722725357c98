// Package reader consumes the trace FIFO and renders it for a terminal.
//
// The Reader is a sequential state machine:
//
//	wait_for_channel --exists--> open --> streaming --EOF--> reopen --> open ...
//
// A producer closes the FIFO after every line, so end-of-stream is normal
// and the reader simply reopens after ReopenDelay. Cancelling the context
// moves the machine to interrupted from any state, including while blocked
// in open or read. An I/O error other than end-of-stream ends in failed.
package reader
