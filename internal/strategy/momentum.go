package strategy

import (
	"fmt"
	"math"
)

// ComputeMomentum returns the trailing lookback-period percentage change of
// every column, lagged one row so that row t only sees closes up to t-1:
//
//	momentum(t, i) = price(t-1, i) / price(t-1-lookback, i) - 1
//
// The first lookback+1 rows, and any cell whose two prices are not both
// present, are NaN.
func ComputeMomentum(prices *PriceTable, lookback int) (*Frame, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLookback, lookback)
	}
	out := newFrame(prices.Dates, prices.Symbols, math.NaN())
	for t := lookback + 1; t < len(prices.Values); t++ {
		now, then := prices.Values[t-1], prices.Values[t-1-lookback]
		for c := range now {
			if math.IsNaN(now[c]) || math.IsNaN(then[c]) {
				continue
			}
			out.Values[t][c] = now[c]/then[c] - 1
		}
	}
	return out, nil
}
