package event

import (
	"time"
)

// Kind identifies what a trace event describes
type Kind int

const (
	Entry Kind = iota
	ExitOK
	ExitErr
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Entry:
		return "entry"
	case ExitOK:
		return "exit_ok"
	case ExitErr:
		return "exit_err"
	default:
		return "unknown"
	}
}

// IsExit reports whether the kind is one of the exit kinds
func (k Kind) IsExit() bool {
	return k == ExitOK || k == ExitErr
}

// Unknown is used for caller fields that could not be determined.
const Unknown = "unknown"

// Caller identifies the call site of a traced invocation.
type Caller struct {
	Function string
	File     string
	Line     int
}

// UnknownCaller is the placeholder for invocations without caller context.
var UnknownCaller = Caller{Function: Unknown, File: Unknown}

// IsZero reports whether no caller information was recorded.
func (c Caller) IsZero() bool {
	return c.Function == "" && c.File == "" && c.Line == 0
}

// Event is a single entry or exit observation of a traced call.
//
// Entry events carry the caller and nothing else. Exit events carry the
// elapsed time and, for ExitErr, the error type and message. CallID ties an
// entry to its exit in the local log; it is not part of the wire line.
type Event struct {
	Kind         Kind
	CallID       string
	Function     string
	Caller       Caller
	Elapsed      time.Duration
	ErrorType    string
	ErrorMessage string
}

// NewEntry creates an entry event.
func NewEntry(callID, function string, caller Caller) Event {
	if caller.IsZero() {
		caller = UnknownCaller
	}
	return Event{
		Kind:     Entry,
		CallID:   callID,
		Function: function,
		Caller:   caller,
	}
}

// NewExit creates an exit event. A nil err yields ExitOK; otherwise the event
// is ExitErr with the given type name and the error's message.
func NewExit(callID, function string, elapsed time.Duration, errType string, err error) Event {
	if elapsed < 0 {
		elapsed = 0
	}
	e := Event{
		Kind:     ExitOK,
		CallID:   callID,
		Function: function,
		Elapsed:  elapsed,
	}
	if err != nil {
		e.Kind = ExitErr
		e.ErrorType = errType
		if e.ErrorType == "" {
			e.ErrorType = "error"
		}
		e.ErrorMessage = err.Error()
	}
	return e
}
