package reader

// State is a reader lifecycle state
type State string

const (
	StateWaitForChannel State = "wait_for_channel"
	StateOpen           State = "open"
	StateStreaming      State = "streaming"
	StateReopen         State = "reopen"
	StateInterrupted    State = "interrupted"
	StateFailed         State = "failed"
)

// Terminal reports whether the reader stops in this state
func (s State) Terminal() bool {
	return s == StateInterrupted || s == StateFailed
}
