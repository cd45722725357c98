package event

import (
	"fmt"
	"strconv"
	"time"
)

// Wire prefixes and markers shared by producer and reader.
const (
	EnterPrefix     = "ENTER:"
	ExitPrefix      = "EXIT:"
	ExceptionMarker = "Exception"
	SuccessMarker   = "Success"
)

// ElapsedPrecision is the number of fractional digits of the elapsed seconds.
const ElapsedPrecision = 4

// Format renders the event as its single wire line, without terminator.
func Format(e Event) string {
	switch e.Kind {
	case Entry:
		c := e.Caller
		if c.IsZero() {
			c = UnknownCaller
		}
		return fmt.Sprintf("%s %s from %s (%s:%d)", EnterPrefix, e.Function, c.Function, c.File, c.Line)
	case ExitErr:
		return fmt.Sprintf("%s %s (elapsed: %s) - %s: %s: %s",
			ExitPrefix, e.Function, FormatElapsed(e.Elapsed), ExceptionMarker, e.ErrorType, e.ErrorMessage)
	default:
		return fmt.Sprintf("%s %s (elapsed: %s) - %s", ExitPrefix, e.Function, FormatElapsed(e.Elapsed), SuccessMarker)
	}
}

// FormatElapsed renders a duration as seconds with ElapsedPrecision digits,
// e.g. "0.0012s". Negative durations are clamped to zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return strconv.FormatFloat(d.Seconds(), 'f', ElapsedPrecision, 64) + "s"
}
