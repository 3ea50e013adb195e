package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"momentum/internal/domain"
	"momentum/internal/store"
)

// LoadPriceTable reads daily closes for symbols from the bar store and lays
// them out on the union of all their trading dates. Cells where a symbol has
// no bar are NaN. Symbols with no bars at all in [start, end] are dropped.
// Columns follow symbol order, upper-cased and de-duplicated.
func LoadPriceTable(ctx context.Context, bars store.BarStore, market domain.Market, symbols []string, start, end time.Time) (*PriceTable, error) {
	log := slog.Default().With("component", "prices")

	closes := make(map[string]map[time.Time]float64, len(symbols))
	dateSet := make(map[time.Time]struct{})
	var kept []string

	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if _, dup := closes[sym]; dup || sym == "" {
			continue
		}

		series, err := bars.ReadBars(ctx, sym, market, start, end)
		if err != nil {
			return nil, fmt.Errorf("reading bars for %s: %w", sym, err)
		}
		byDate := make(map[time.Time]float64, len(series))
		for _, b := range series {
			d := truncateDay(b.Timestamp)
			byDate[d] = b.Close
			dateSet[d] = struct{}{}
		}
		closes[sym] = byDate
		if len(byDate) == 0 {
			log.Warn("no price history, dropping symbol", "symbol", sym)
			continue
		}
		kept = append(kept, sym)
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	values := make([][]float64, len(dates))
	for r, d := range dates {
		row := make([]float64, len(kept))
		for c, sym := range kept {
			v, ok := closes[sym][d]
			if !ok {
				v = math.NaN()
			}
			row[c] = v
		}
		values[r] = row
	}

	log.Info("loaded price table", "symbols", len(kept), "requested", len(symbols), "dates", len(dates))
	return NewPriceTable(dates, kept, values)
}
