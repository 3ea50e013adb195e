// Package strategy implements the cross-sectional momentum backtest:
// momentum scores, rebalance scheduling, portfolio construction, and return
// aggregation, plus a Registry of the selection rules used to pick holdings.
package strategy

import (
	"sort"
)

// Score is one instrument's defined momentum on a rebalance date. Col is the
// instrument's column in the momentum table.
type Score struct {
	Col    int
	Symbol string
	Value  float64
}

// Selector picks the instruments to hold from a rebalance date's scores.
type Selector interface {
	// Name returns the unique identifier for this selector.
	Name() string

	// Select returns the subset of scores to hold. scores contains only
	// defined values and is ordered by column. Implementations must not
	// modify scores and must be deterministic for equal inputs.
	Select(scores []Score) []Score
}

// Registry holds a named collection of selectors for lookup and enumeration.
type Registry struct {
	selectors map[string]Selector
}

// NewRegistry creates an empty selector Registry.
func NewRegistry() *Registry {
	return &Registry{
		selectors: make(map[string]Selector),
	}
}

// Register adds a selector to the registry, keyed by its Name().
func (r *Registry) Register(s Selector) {
	r.selectors[s.Name()] = s
}

// Get retrieves a selector by name. The second return value indicates whether
// the selector was found.
func (r *Registry) Get(name string) (Selector, bool) {
	s, ok := r.selectors[name]
	return s, ok
}

// List returns a sorted slice of all registered selector names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.selectors))
	for name := range r.selectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
