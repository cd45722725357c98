package tracer

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter selects which functions are traced by glob patterns over their
// names, e.g. "process*" or "{calculate,process}_*". A nil or empty filter
// matches everything.
type Filter struct {
	patterns []string
}

// NewFilter validates the patterns and builds a filter
func NewFilter(patterns []string) (*Filter, error) {
	var kept []string
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid function pattern %q", p)
		}
		kept = append(kept, p)
	}
	return &Filter{patterns: kept}, nil
}

// Match reports whether name should be traced
func (f *Filter) Match(name string) bool {
	if f == nil || len(f.patterns) == 0 {
		return true
	}
	for _, p := range f.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Patterns returns the configured patterns
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.patterns...)
}
