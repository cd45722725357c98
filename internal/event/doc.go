// Package event defines trace events and their one-line wire form.
//
// Each traced invocation produces two events, an entry and an exit. Events
// are rendered as plain UTF-8 lines:
//
//	ENTER: <function> from <callerFunction> (<callerFile>:<callerLine>)
//	EXIT: <function> (elapsed: <seconds>s) - Success
//	EXIT: <function> (elapsed: <seconds>s) - Exception: <type>: <message>
//
// The reader never parses these lines back into events. It classifies them
// by prefix only (see Classify), so the ENTER:/EXIT: prefixes and the
// "Exception" marker are the compatibility surface between producer and
// reader.
package event
