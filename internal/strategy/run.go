package strategy

import (
	"time"
)

// Params configures a single backtest run.
type Params struct {
	Lookback  int
	Frequency Frequency
	Selector  Selector
	Hold      HoldPolicy
}

// Result holds every intermediate table of a run alongside the final return
// series.
type Result struct {
	Momentum  *Frame
	Rebalance []time.Time
	Weights   *Frame
	Returns   *Series
}

// Run executes the momentum backtest over prices. It performs no I/O.
func Run(prices *PriceTable, p Params) (*Result, error) {
	momentum, err := ComputeMomentum(prices, p.Lookback)
	if err != nil {
		return nil, err
	}

	rebalance := RebalanceDates(momentum, p.Frequency)

	weights, err := BuildPortfolio(momentum, rebalance, p.Selector, p.Hold)
	if err != nil {
		return nil, err
	}

	returns, err := AggregateReturns(weights, prices)
	if err != nil {
		return nil, err
	}

	return &Result{
		Momentum:  momentum,
		Rebalance: rebalance,
		Weights:   weights,
		Returns:   returns,
	}, nil
}
