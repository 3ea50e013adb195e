package strategy

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// tradingDaysPerYear annualizes daily statistics.
const tradingDaysPerYear = 252

// Summary holds the headline metrics of a backtest run.
type Summary struct {
	TotalReturn      float64 // simple sum of daily returns
	CumulativeReturn float64 // compounded
	AnnualVolatility float64
	SharpeRatio      float64
	MaxDrawdown      float64 // positive fraction of peak equity
	TradingDays      int
	DaysInvested     int
	Rebalances       int
}

// Summarize computes a Summary from a finished run.
func Summarize(res *Result) Summary {
	r := res.Returns.Values
	s := Summary{
		TradingDays: len(r),
		Rebalances:  len(res.Rebalance),
	}
	if len(r) == 0 {
		return s
	}

	equity, peak := 1.0, 1.0
	for _, v := range r {
		s.TotalReturn += v
		equity *= 1 + v
		if equity > peak {
			peak = equity
		}
		if dd := 1 - equity/peak; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}
	}
	s.CumulativeReturn = equity - 1

	for _, row := range res.Weights.Values {
		for _, w := range row {
			if w != 0 {
				s.DaysInvested++
				break
			}
		}
	}

	if len(r) > 1 {
		mean, std := stat.MeanStdDev(r, nil)
		s.AnnualVolatility = std * math.Sqrt(tradingDaysPerYear)
		if std > 0 {
			s.SharpeRatio = mean / std * math.Sqrt(tradingDaysPerYear)
		}
	}
	return s
}
