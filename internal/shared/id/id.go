// Package id provides identifiers for traced invocations.
//
// Every traced call gets a CallID so its entry and exit lines can be paired
// in the local log even when calls from several goroutines interleave. IDs
// are prefixed ULIDs ("call_01J..."), which sort by creation time.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// CallID identifies one traced invocation
type CallID string

// CallPrefix is prepended to every call ID
const CallPrefix = "call"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with monotonic, cryptographically secure
// entropy, so IDs created within the same millisecond still sort in order.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewCallID generates a call ID from the given generator
func (g *Generator) NewCallID() CallID {
	return CallID(g.GenerateWithPrefix(CallPrefix))
}

func (id CallID) String() string { return string(id) }
