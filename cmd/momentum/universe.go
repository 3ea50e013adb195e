package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"momentum/internal/domain"
	"momentum/internal/store"
	"momentum/internal/universe"
)

var (
	universeBucket  string
	universeRefresh bool
)

var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Download the constituent list and print a capitalization bucket",
	RunE:  runUniverse,
}

func init() {
	universeCmd.Flags().StringVar(&universeBucket, "bucket", "", "LARGECAP, MIDCAP, SMALLCAP or ALL (default from config)")
	universeCmd.Flags().BoolVar(&universeRefresh, "refresh", false, "download a fresh list even if one is stored")
	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, _ []string) error {
	cons, err := bucketConstituents(cmd.Context(), universeBucket, universeRefresh)
	if err != nil {
		return err
	}
	for _, c := range cons {
		mcap := "-"
		if c.MarketCap.Valid {
			mcap = c.MarketCap.Decimal.StringFixed(0)
		}
		fmt.Printf("%-12s %18s  %s\n", c.Symbol, mcap, c.Name)
	}
	return nil
}

// bucketConstituents returns the configured bucket (or the override) of the
// latest stored constituent snapshot, downloading one when none is stored or
// refresh is set.
func bucketConstituents(ctx context.Context, bucketFlag string, refresh bool) ([]domain.Constituent, error) {
	if bucketFlag == "" {
		bucketFlag = cfg.Universe.Bucket
	}
	bucket, err := universe.ParseBucket(bucketFlag)
	if err != nil {
		return nil, err
	}

	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Storage.SQLitePath, err)
	}
	defer db.Close()

	cons, err := loadConstituents(ctx, db, refresh)
	if err != nil {
		return nil, err
	}

	selected := universe.SelectBucket(cons, bucket, cfg.Universe.BucketSize)
	slog.Info("selected universe", "bucket", string(bucket), "size", len(selected), "of", len(cons))
	if len(selected) == 0 {
		return nil, fmt.Errorf("bucket %s is empty (%d constituents)", bucket, len(cons))
	}
	return selected, nil
}

func loadConstituents(ctx context.Context, db store.ConstituentStore, refresh bool) ([]domain.Constituent, error) {
	if !refresh {
		latest, ok, err := db.LatestSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot: %w", err)
		}
		if ok {
			slog.Info("using stored constituents", "snapshot", latest.Format(time.DateOnly))
			return db.LoadConstituents(ctx, latest)
		}
	}

	if cfg.Universe.URL == "" {
		return nil, fmt.Errorf("no stored constituents and universe.url is not set")
	}
	cons, err := universe.Fetch(ctx, nil, cfg.Universe.URL, universe.Columns{
		Symbol:    cfg.Universe.SymbolColumn,
		MarketCap: cfg.Universe.MarketCapColumn,
		Name:      cfg.Universe.NameColumn,
		Industry:  cfg.Universe.IndustryColumn,
	})
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if err := db.SaveConstituents(ctx, today, cons); err != nil {
		return nil, fmt.Errorf("saving constituents: %w", err)
	}
	return cons, nil
}
