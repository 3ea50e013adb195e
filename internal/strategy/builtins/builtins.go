package builtins

import "momentum/internal/strategy"

// DefaultSelectionSize is the TopN size used when none is configured.
const DefaultSelectionSize = 50

// NewRegistry returns a Registry holding every builtin selector. TopN holds
// at most selectionSize instruments.
func NewRegistry(selectionSize int) *strategy.Registry {
	if selectionSize <= 0 {
		selectionSize = DefaultSelectionSize
	}
	r := strategy.NewRegistry()
	r.Register(NewTopN(selectionSize))
	r.Register(NewAboveMedian())
	return r
}
