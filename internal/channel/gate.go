package channel

import (
	"sync"
	"time"
)

// GateState describes what the publisher believes about the reader.
type GateState int

const (
	// GateProbing: unknown; the next publish tries once without waiting
	GateProbing GateState = iota
	// GateAttached: a recent publish reached a reader; publishes may wait
	// for it to reopen the FIFO
	GateAttached
	// GateDetached: no reader; publishes are dropped until the probe interval passes
	GateDetached
)

// String returns the string representation of the state
func (s GateState) String() string {
	switch s {
	case GateProbing:
		return "probing"
	case GateAttached:
		return "attached"
	case GateDetached:
		return "detached"
	default:
		return "unknown"
	}
}

var gateStates = []string{GateProbing.String(), GateAttached.String(), GateDetached.String()}

// GateSettings configures the gate behavior
type GateSettings struct {
	// MaxFailures is the number of consecutive failures while attached
	// before the gate considers the reader gone
	MaxFailures uint32
	// ProbeInterval is how long the gate stays detached before probing again
	ProbeInterval time.Duration
	// OnStateChange is called whenever the state changes
	OnStateChange func(from, to GateState)
}

// Gate tracks reader presence so a traced program does not stall on every
// call while nobody is reading. It is a circuit breaker whose closed state
// means "a reader is attached".
type Gate struct {
	settings GateSettings

	mu       sync.Mutex
	state    GateState
	failures uint32
	expiry   time.Time
	now      func() time.Time
}

// NewGate creates a gate in the probing state
func NewGate(settings GateSettings) *Gate {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 1
	}
	if settings.ProbeInterval <= 0 {
		settings.ProbeInterval = 2 * time.Second
	}

	return &Gate{
		settings: settings,
		state:    GateProbing,
		now:      time.Now,
	}
}

// State returns the current state of the gate
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.currentState(g.now())
}

// Allow reports whether a publish should touch the FIFO at all, and if so
// whether it may wait for a reader to (re)open it.
func (g *Gate) Allow() (attempt, wait bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.currentState(g.now()) {
	case GateAttached:
		return true, true
	case GateProbing:
		return true, false
	default:
		return false, false
	}
}

// Record feeds the outcome of an attempted publish back into the gate
func (g *Gate) Record(success bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	switch g.currentState(now) {
	case GateAttached:
		if success {
			g.failures = 0
			return
		}
		g.failures++
		if g.failures >= g.settings.MaxFailures {
			g.setState(GateDetached, now)
		}
	case GateProbing:
		if success {
			g.setState(GateAttached, now)
		} else {
			g.setState(GateDetached, now)
		}
	}
}

// currentState moves an expired detached gate to probing
func (g *Gate) currentState(now time.Time) GateState {
	if g.state == GateDetached && !g.expiry.After(now) {
		g.setState(GateProbing, now)
	}
	return g.state
}

// setState changes the state of the gate
func (g *Gate) setState(state GateState, now time.Time) {
	if g.state == state {
		return
	}

	prev := g.state
	g.state = state
	g.failures = 0

	if state == GateDetached {
		g.expiry = now.Add(g.settings.ProbeInterval)
	} else {
		g.expiry = time.Time{}
	}

	if g.settings.OnStateChange != nil {
		g.settings.OnStateChange(prev, state)
	}
}
