package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "entry",
			event: NewEntry("c1", "f", Caller{Function: "main", File: "/src/main.go", Line: 12}),
			want:  "ENTER: f from main (/src/main.go:12)",
		},
		{
			name:  "entry without caller",
			event: NewEntry("c1", "f", Caller{}),
			want:  "ENTER: f from unknown (unknown:0)",
		},
		{
			name:  "exit success",
			event: NewExit("c1", "f", 1500*time.Microsecond, "", nil),
			want:  "EXIT: f (elapsed: 0.0015s) - Success",
		},
		{
			name:  "exit error",
			event: NewExit("c1", "g", 2*time.Second, "ValueError", errors.New("boom")),
			want:  "EXIT: g (elapsed: 2.0000s) - Exception: ValueError: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.event))
		})
	}
}

func TestNewExit(t *testing.T) {
	ok := NewExit("c1", "f", -time.Second, "", nil)
	assert.Equal(t, ExitOK, ok.Kind)
	assert.Equal(t, time.Duration(0), ok.Elapsed)
	assert.Empty(t, ok.ErrorType)
	assert.Empty(t, ok.ErrorMessage)

	failed := NewExit("c1", "f", time.Millisecond, "", errors.New("bad"))
	assert.Equal(t, ExitErr, failed.Kind)
	assert.Equal(t, "error", failed.ErrorType)
	assert.Equal(t, "bad", failed.ErrorMessage)
	assert.True(t, failed.Kind.IsExit())
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("c1", "f", Caller{})
	assert.Equal(t, Entry, e.Kind)
	assert.Equal(t, UnknownCaller, e.Caller)
	assert.Zero(t, e.Elapsed)
	assert.Empty(t, e.ErrorType)
	assert.False(t, e.Kind.IsExit())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0.0000s", FormatElapsed(0))
	assert.Equal(t, "0.0000s", FormatElapsed(-5*time.Millisecond))
	assert.Equal(t, "0.2500s", FormatElapsed(250*time.Millisecond))
	assert.Equal(t, "61.0001s", FormatElapsed(61*time.Second+100*time.Microsecond))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Style
	}{
		{"ENTER: f from main (main.go:1)", StyleEnter},
		{"ENTER: Exception from main (main.go:1)", StyleEnter},
		{"EXIT: f (elapsed: 0.0010s) - Success", StyleSuccess},
		{"EXIT: g (elapsed: 0.0010s) - Exception: ValueError: boom", StyleError},
		{"hello", StylePlain},
		{"", StylePlain},
		{" ENTER: indented", StylePlain},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		color bool
		want  string
	}{
		{"enter colored", "ENTER: f", true, "\033[94m→ ENTER: f\033[0m"},
		{"success colored", "EXIT: f - Success", true, "\033[92m← EXIT: f - Success\033[0m"},
		{"error colored", "EXIT: f - Exception: E: m", true, "\033[91m← EXIT: f - Exception: E: m\033[0m"},
		{"plain colored", "other", true, "  other"},
		{"enter no color", "ENTER: f", false, "→ ENTER: f"},
		{"error no color", "EXIT: f - Exception: E: m", false, "← EXIT: f - Exception: E: m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.line, Classify(tt.line), tt.color))
		})
	}
}
