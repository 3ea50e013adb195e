package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"momentum/internal/domain"
	"momentum/internal/store"
	"momentum/internal/strategy"
	"momentum/internal/strategy/builtins"
	"momentum/internal/universe"
)

var (
	btBucket   string
	btFrom     string
	btTo       string
	btLookback int
	btFreq     string
	btSelector string
	btSize     int
	btHold     string
	btOut      string
	btNoFetch  bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the momentum backtest and print a summary",
	Long: `Rank the selected universe by trailing return on each rebalance date,
hold the winners with equal weight, and report the realized daily returns.
Prices missing from the local store are downloaded first unless --no-fetch
is given.`,
	RunE: runBacktest,
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&btBucket, "bucket", "", "capitalization bucket (default from config)")
	f.StringVar(&btFrom, "from", "", "start date YYYY-MM-DD (default from config)")
	f.StringVar(&btTo, "to", "", "end date YYYY-MM-DD (default latest finished trading day)")
	f.IntVar(&btLookback, "lookback", 0, "momentum lookback in trading days (default from config)")
	f.StringVar(&btFreq, "freq", "", "rebalance frequency: D, W, W-MON..W-SUN (default from config)")
	f.StringVar(&btSelector, "selector", "", "top_n or above_median (default from config)")
	f.IntVar(&btSize, "size", 0, "top_n selection size (default from config)")
	f.StringVar(&btHold, "hold", "", "flat or carry between rebalances (default from config)")
	f.StringVar(&btOut, "out", "", "write the daily return series to this CSV file")
	f.BoolVar(&btNoFetch, "no-fetch", false, "use only prices already in the local store")
	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cons, err := bucketConstituents(ctx, btBucket, false)
	if err != nil {
		return err
	}
	symbols := universe.Symbols(cons)

	dates, err := dateRange(btFrom, btTo)
	if err != nil {
		return err
	}
	if !btNoFetch {
		if err := downloadPrices(ctx, symbols, dates, false); err != nil {
			return fmt.Errorf("downloading prices: %w", err)
		}
	}

	b := cfg.Backtest
	btCfg := strategy.BacktestConfig{
		Lookback:      pick(btLookback, b.LookbackPeriod),
		RebalanceFreq: pick(btFreq, b.RebalanceFreq),
		Selector:      pick(btSelector, b.Selector),
		Hold:          pick(btHold, b.Hold),
	}

	bt := strategy.NewBacktester(
		store.NewParquetStore(cfg.Storage.DataDir),
		builtins.NewRegistry(pick(btSize, b.SelectionSize)),
		domain.MarketUS,
	)
	res, sum, err := bt.Run(ctx, btCfg, symbols, dates.Start, dates.End)
	if err != nil {
		return err
	}

	printSummary(btCfg, res, sum)

	if btOut != "" {
		if err := writeReturns(btOut, res.Returns); err != nil {
			return fmt.Errorf("writing %s: %w", btOut, err)
		}
		fmt.Printf("Returns written to %s\n", btOut)
	}
	return nil
}

func pick[T comparable](flag, fallback T) T {
	var zero T
	if flag != zero {
		return flag
	}
	return fallback
}

func printSummary(c strategy.BacktestConfig, res *strategy.Result, s strategy.Summary) {
	first, last := res.Returns.Dates[0], res.Returns.Dates[len(res.Returns.Dates)-1]

	fmt.Println("=== Momentum Backtest ===")
	fmt.Printf("Period:       %s to %s\n", first.Format(time.DateOnly), last.Format(time.DateOnly))
	fmt.Printf("Instruments:  %d\n", len(res.Weights.Symbols))
	fmt.Printf("Lookback:     %d\n", c.Lookback)
	fmt.Printf("Rebalance:    %s (%d dates)\n", c.RebalanceFreq, s.Rebalances)
	fmt.Printf("Selector:     %s, hold %s\n", c.Selector, c.Hold)
	fmt.Println()
	fmt.Printf("Strategy return:    %.4f\n", s.TotalReturn)
	fmt.Printf("Compounded return:  %.2f%%\n", s.CumulativeReturn*100)
	fmt.Printf("Annual volatility:  %.2f%%\n", s.AnnualVolatility*100)
	fmt.Printf("Sharpe ratio:       %.2f\n", s.SharpeRatio)
	fmt.Printf("Max drawdown:       %.2f%%\n", s.MaxDrawdown*100)
	fmt.Printf("Days invested:      %d of %d\n", s.DaysInvested, s.TradingDays)
}

func writeReturns(path string, r *strategy.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "return"}); err != nil {
		return err
	}
	for i, d := range r.Dates {
		if err := w.Write([]string{d.Format(time.DateOnly), strconv.FormatFloat(r.Values[i], 'g', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
