// Package builtins provides the selection rules that ship with the
// momentum backtester.
package builtins

import (
	"sort"

	"momentum/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Selector = (*TopN)(nil)

// TopN selects the N highest scores. Equal scores keep their column order,
// and fewer than N defined scores selects all of them.
type TopN struct {
	n int
}

// NewTopN creates a TopN selector holding at most n instruments.
func NewTopN(n int) *TopN {
	return &TopN{n: n}
}

// Name returns "top_n".
func (s *TopN) Name() string {
	return "top_n"
}

// Select returns the top N scores in descending order.
func (s *TopN) Select(scores []strategy.Score) []strategy.Score {
	ranked := make([]strategy.Score, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if s.n < len(ranked) {
		ranked = ranked[:max(s.n, 0)]
	}
	return ranked
}
