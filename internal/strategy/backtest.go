package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"momentum/internal/domain"
	"momentum/internal/store"
)

// BacktestConfig names the run parameters by their configured values.
type BacktestConfig struct {
	Lookback      int
	RebalanceFreq string
	Selector      string
	Hold          string
}

// Backtester loads closes from a bar store, runs the momentum backtest, and
// summarizes the outcome.
type Backtester struct {
	store    store.BarStore
	registry *Registry
	market   domain.Market
}

// NewBacktester creates a Backtester that reads bars from the given store and
// looks up selectors in the provided registry.
func NewBacktester(barStore store.BarStore, registry *Registry, market domain.Market) *Backtester {
	return &Backtester{
		store:    barStore,
		registry: registry,
		market:   market,
	}
}

// Params resolves cfg against the registry into run parameters.
func (bt *Backtester) Params(cfg BacktestConfig) (Params, error) {
	freq, err := ParseFrequency(cfg.RebalanceFreq)
	if err != nil {
		return Params{}, err
	}
	hold, err := ParseHoldPolicy(cfg.Hold)
	if err != nil {
		return Params{}, err
	}
	sel, ok := bt.registry.Get(cfg.Selector)
	if !ok {
		return Params{}, fmt.Errorf("%w: %q (available: %v)", ErrNoSelector, cfg.Selector, bt.registry.List())
	}
	return Params{Lookback: cfg.Lookback, Frequency: freq, Selector: sel, Hold: hold}, nil
}

// Run executes a backtest over symbols and [start, end].
func (bt *Backtester) Run(ctx context.Context, cfg BacktestConfig, symbols []string, start, end time.Time) (*Result, Summary, error) {
	log := slog.Default().With("component", "backtest", "run_id", uuid.NewString())

	p, err := bt.Params(cfg)
	if err != nil {
		return nil, Summary{}, err
	}

	prices, err := LoadPriceTable(ctx, bt.store, bt.market, symbols, start, end)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("loading prices: %w", err)
	}

	log.Info("running backtest",
		"symbols", len(prices.Symbols),
		"dates", len(prices.Dates),
		"lookback", p.Lookback,
		"freq", p.Frequency.String(),
		"selector", p.Selector.Name(),
		"hold", string(p.Hold),
	)

	res, err := Run(prices, p)
	if err != nil {
		return nil, Summary{}, err
	}

	sum := Summarize(res)
	log.Info("backtest complete",
		"total_return", sum.TotalReturn,
		"cumulative_return", sum.CumulativeReturn,
		"sharpe", sum.SharpeRatio,
		"max_drawdown", sum.MaxDrawdown,
		"rebalances", sum.Rebalances,
	)
	return res, sum, nil
}
