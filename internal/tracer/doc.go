/*
Package tracer wraps function calls with entry and exit trace events.

A traced call emits exactly two events: an entry naming the call site, and
an exit carrying the elapsed time and the outcome. Both go to the local log
and to a Publisher (normally the FIFO channel manager). The wrapped function
runs synchronously on the calling goroutine; its results, errors and panics
reach the caller unchanged.

# Usage

	tr := tracer.New(manager, logger)

	multiply := tracer.Func2(tr, "", func(a, b int) (int, error) {
		return a * b, nil
	})
	product, err := multiply(2, 3)

	// Without a wrapper, passing the call site explicitly
	err = tr.Call("flush", tracer.Here(), flush)

Nested and concurrent traced calls share one channel, so their lines appear
in the order they happened rather than as a call tree.
*/
package tracer
