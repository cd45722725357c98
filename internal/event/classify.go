package event

import (
	"strings"
)

// Style is the visual treatment the reader gives a line.
type Style int

const (
	StylePlain Style = iota
	StyleEnter
	StyleSuccess
	StyleError
)

// String returns the string representation of the style
func (s Style) String() string {
	switch s {
	case StyleEnter:
		return "enter"
	case StyleSuccess:
		return "success"
	case StyleError:
		return "error"
	default:
		return "plain"
	}
}

// ANSI escape sequences used by Render.
const (
	colorBlue  = "\033[94m"
	colorGreen = "\033[92m"
	colorRed   = "\033[91m"
	colorReset = "\033[0m"
)

// Classify picks a style from the line's prefix. It does not parse the line.
func Classify(line string) Style {
	switch {
	case strings.HasPrefix(line, EnterPrefix):
		return StyleEnter
	case strings.HasPrefix(line, ExitPrefix):
		if strings.Contains(line, ExceptionMarker) {
			return StyleError
		}
		return StyleSuccess
	default:
		return StylePlain
	}
}

// Render formats a classified line for the terminal. Entry lines get an
// arrow pointing in, exit lines one pointing out, anything else is indented.
// With color disabled only the arrows remain.
func Render(line string, style Style, color bool) string {
	var marker, code string
	switch style {
	case StyleEnter:
		marker, code = "→ ", colorBlue
	case StyleSuccess:
		marker, code = "← ", colorGreen
	case StyleError:
		marker, code = "← ", colorRed
	default:
		return "  " + line
	}

	if !color {
		return marker + line
	}
	return code + marker + line + colorReset
}
