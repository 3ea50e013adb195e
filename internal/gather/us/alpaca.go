// Package us downloads US equity price history from the Alpaca market-data
// API.
package us

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"momentum/internal/domain"
	"momentum/internal/gather"
	"momentum/internal/store"
	"momentum/internal/util"
)

// Compile-time interface check.
var _ gather.Gatherer = (*PriceGatherer)(nil)

// barsClient is the slice of the Alpaca market-data client PriceGatherer uses.
type barsClient interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
}

var newYork = loadNewYork()

func loadNewYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// PriceGatherer downloads split- and dividend-adjusted daily bars for a fixed
// symbol list and stores them in a BarStore.
type PriceGatherer struct {
	client      barsClient
	store       store.BarStore
	symbols     []string
	dates       gather.DateRange
	batchSize   int
	limiter     *util.RateLimiter
	maxAttempts int
	refresh     bool
	log         *slog.Logger
}

// NewPriceGatherer creates a PriceGatherer configured with the given Alpaca
// credentials, target store, and batch parameters.
func NewPriceGatherer(apiKey, apiSecret, dataURL string, s store.BarStore, symbols []string, dates gather.DateRange, batchSize, rateLimitPerMin, maxAttempts int) *PriceGatherer {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return newPriceGatherer(marketdata.NewClient(opts), s, symbols, dates, batchSize, rateLimitPerMin, maxAttempts)
}

func newPriceGatherer(client barsClient, s store.BarStore, symbols []string, dates gather.DateRange, batchSize, rateLimitPerMin, maxAttempts int) *PriceGatherer {
	return &PriceGatherer{
		client:      client,
		store:       s,
		symbols:     symbols,
		dates:       dates,
		batchSize:   max(batchSize, 1),
		limiter:     util.NewRateLimiter(rateLimitPerMin),
		maxAttempts: maxAttempts,
		log:         slog.Default().With("gatherer", "us-prices"),
	}
}

// SetRefresh makes Run download symbols that already have stored bars.
func (g *PriceGatherer) SetRefresh(refresh bool) {
	g.refresh = refresh
}

// Name returns the gatherer identifier.
func (g *PriceGatherer) Name() string { return "us-prices" }

// Run downloads bars for every symbol whose stored history does not cover the
// date range, one batch per API call. A batch that keeps failing aborts the run.
func (g *PriceGatherer) Run(ctx context.Context) error {
	remaining, err := g.pending(ctx)
	if err != nil {
		return err
	}

	totalBatches := (len(remaining) + g.batchSize - 1) / g.batchSize
	g.log.Info("starting price download",
		"start", g.dates.Start.Format(time.DateOnly),
		"end", g.dates.End.Format(time.DateOnly),
		"symbols", len(g.symbols),
		"remaining", len(remaining),
		"batches", totalBatches,
	)

	var hits, empty int
	runStart := time.Now()
	for i := 0; i < len(remaining); i += g.batchSize {
		batch := remaining[i:min(i+g.batchSize, len(remaining))]
		batchNo := i/g.batchSize + 1

		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}

		var bars []domain.Bar
		err := util.Retry(ctx, g.maxAttempts, 2*time.Second, func() error {
			var ferr error
			bars, ferr = g.fetchMultiBars(batch)
			return ferr
		})
		if err != nil {
			return fmt.Errorf("batch %d/%d: %w", batchNo, totalBatches, err)
		}

		if err := g.store.WriteBars(ctx, domain.MarketUS, bars); err != nil {
			return fmt.Errorf("writing batch %d/%d: %w", batchNo, totalBatches, err)
		}

		got := make(map[string]struct{}, len(batch))
		for _, b := range bars {
			got[b.Symbol] = struct{}{}
		}
		hits += len(got)
		empty += len(batch) - len(got)

		g.log.Info("batch done",
			"batch", fmt.Sprintf("%d/%d", batchNo, totalBatches),
			"hits", len(got),
			"empty", len(batch)-len(got),
			"bars", len(bars),
		)
	}

	g.log.Info("complete", "hits", hits, "empty", empty, "elapsed", time.Since(runStart).Round(time.Second))
	return nil
}

// coverageSlack is how far the first and last stored bars may sit inside the
// requested range before a symbol counts as incomplete. It absorbs weekends
// and holiday runs at either edge.
const coverageSlack = 7 * 24 * time.Hour

// pending returns the upper-cased, de-duplicated symbols that still need a
// download: those with no stored bars, or whose stored bars do not span the
// requested dates.
func (g *PriceGatherer) pending(ctx context.Context) ([]string, error) {
	stored := make(map[string]struct{})
	if !g.refresh {
		existing, err := g.store.ListSymbols(ctx, domain.MarketUS)
		if err != nil {
			return nil, fmt.Errorf("listing existing symbols: %w", err)
		}
		for _, sym := range existing {
			stored[sym] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(g.symbols))
	var remaining []string
	for _, sym := range g.symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}

		if _, ok := stored[sym]; ok {
			covered, err := g.covered(ctx, sym)
			if err != nil {
				return nil, err
			}
			if covered {
				continue
			}
		}
		remaining = append(remaining, sym)
	}
	return remaining, nil
}

// covered reports whether the stored bars for sym reach both ends of the
// requested range.
func (g *PriceGatherer) covered(ctx context.Context, sym string) (bool, error) {
	bars, err := g.store.ReadBars(ctx, sym, domain.MarketUS, g.dates.Start, g.dates.End)
	if err != nil {
		return false, fmt.Errorf("reading stored bars for %s: %w", sym, err)
	}
	if len(bars) == 0 {
		return false, nil
	}
	first, last := bars[0].Timestamp, bars[len(bars)-1].Timestamp
	if first.Sub(g.dates.Start) > coverageSlack || g.dates.End.Sub(last) > coverageSlack {
		g.log.Debug("stored bars incomplete", "symbol", sym,
			"first", first.Format(time.DateOnly), "last", last.Format(time.DateOnly))
		return false, nil
	}
	return true, nil
}

// fetchMultiBars fetches daily bars for multiple symbols in a single API call.
func (g *PriceGatherer) fetchMultiBars(symbols []string) ([]domain.Bar, error) {
	multiBars, err := g.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      g.dates.Start,
		End:        g.dates.End.AddDate(0, 0, 1),
		Feed:       "sip",
	})
	if err != nil {
		return nil, fmt.Errorf("GetMultiBars: %w", err)
	}

	var bars []domain.Bar
	for symbol, alpacaBars := range multiBars {
		for _, ab := range alpacaBars {
			bars = append(bars, domain.Bar{
				Symbol:     strings.ToUpper(symbol),
				Timestamp:  tradingDate(ab.Timestamp),
				Open:       ab.Open,
				High:       ab.High,
				Low:        ab.Low,
				Close:      ab.Close,
				Volume:     int64(ab.Volume),
				TradeCount: int64(ab.TradeCount),
				VWAP:       ab.VWAP,
			})
		}
	}
	return bars, nil
}

// tradingDate maps a bar timestamp to its New York session date at UTC
// midnight.
func tradingDate(ts time.Time) time.Time {
	y, m, d := ts.In(newYork).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
