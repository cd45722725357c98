// Package producer wires configuration, logging, metrics, the FIFO channel
// and the call tracer into the one object a traced program needs.
package producer
