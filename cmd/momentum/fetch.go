package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"momentum/internal/gather"
	"momentum/internal/gather/us"
	"momentum/internal/store"
	"momentum/internal/universe"
)

var (
	fetchBucket  string
	fetchFrom    string
	fetchTo      string
	fetchRefresh bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily price history for the selected universe",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchBucket, "bucket", "", "capitalization bucket (default from config)")
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "start date YYYY-MM-DD (default from config)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "end date YYYY-MM-DD (default latest finished trading day)")
	fetchCmd.Flags().BoolVar(&fetchRefresh, "refresh", false, "re-download symbols that already have prices")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cons, err := bucketConstituents(ctx, fetchBucket, false)
	if err != nil {
		return err
	}
	dates, err := dateRange(fetchFrom, fetchTo)
	if err != nil {
		return err
	}
	return downloadPrices(ctx, universe.Symbols(cons), dates, fetchRefresh)
}

// dateRange resolves the run's dates from flags, then config, then the
// trading calendar.
func dateRange(from, to string) (gather.DateRange, error) {
	if from == "" {
		from = cfg.Gather.Prices.StartDate
	}
	if to == "" {
		to = cfg.Gather.Prices.EndDate
	}

	end := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)
	if to == "" && cfg.Alpaca.APIKey != "" {
		latest, err := us.LatestFinishedTradingDay(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL)
		if err != nil {
			slog.Warn("trading calendar unavailable, ending yesterday", "err", err)
		} else {
			end = latest
		}
	}
	return gather.ParseDateRange(from, to, end)
}

func downloadPrices(ctx context.Context, symbols []string, dates gather.DateRange, refresh bool) error {
	if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
		return fmt.Errorf("alpaca credentials are required to download prices (set APCA_API_KEY_ID and APCA_API_SECRET_KEY)")
	}

	p := cfg.Gather.Prices
	g := us.NewPriceGatherer(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		store.NewParquetStore(cfg.Storage.DataDir),
		symbols,
		dates,
		p.BatchSize,
		p.RateLimitPerMin,
		p.MaxAttempts,
	)
	g.SetRefresh(refresh)

	slog.Info("starting gatherer", "name", g.Name())
	return g.Run(ctx)
}
