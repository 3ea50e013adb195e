package strategy

import (
	"fmt"
	"math"
)

// AggregateReturns computes the strategy's daily return series. Each day's
// return is the sum over instruments of the previous day's weight times the
// instrument's close-to-close return. Terms with a missing price contribute
// nothing, and the first day's return is zero.
func AggregateReturns(weights *Frame, prices *PriceTable) (*Series, error) {
	if !weights.sameShape(&prices.Frame) {
		return nil, fmt.Errorf("%w: weights %dx%d, prices %dx%d", ErrShape,
			len(weights.Dates), len(weights.Symbols), len(prices.Dates), len(prices.Symbols))
	}

	out := &Series{Dates: prices.Dates, Values: make([]float64, len(prices.Dates))}
	for t := 1; t < len(prices.Values); t++ {
		held, prev, now := weights.Values[t-1], prices.Values[t-1], prices.Values[t]
		var sum float64
		for c, w := range held {
			if w == 0 || math.IsNaN(prev[c]) || math.IsNaN(now[c]) {
				continue
			}
			sum += w * (now[c]/prev[c] - 1)
		}
		out.Values[t] = sum
	}
	return out, nil
}
