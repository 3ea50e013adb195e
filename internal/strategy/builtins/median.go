package builtins

import (
	"sort"

	"momentum/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Selector = (*AboveMedian)(nil)

// AboveMedian selects every score strictly greater than the cross-sectional
// median.
type AboveMedian struct{}

// NewAboveMedian creates an AboveMedian selector.
func NewAboveMedian() *AboveMedian {
	return &AboveMedian{}
}

// Name returns "above_median".
func (s *AboveMedian) Name() string {
	return "above_median"
}

// Select returns the winners in column order.
func (s *AboveMedian) Select(scores []strategy.Score) []strategy.Score {
	if len(scores) == 0 {
		return nil
	}
	m := median(scores)

	var winners []strategy.Score
	for _, sc := range scores {
		if sc.Value > m {
			winners = append(winners, sc)
		}
	}
	return winners
}

func median(scores []strategy.Score) float64 {
	vals := make([]float64, len(scores))
	for i, sc := range scores {
		vals[i] = sc.Value
	}
	sort.Float64s(vals)

	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}
