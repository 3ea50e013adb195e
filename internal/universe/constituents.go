// Package universe downloads index constituent lists and slices them into
// market-capitalization buckets.
package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"momentum/internal/domain"
	"momentum/internal/util"
)

// Columns names the CSV header fields to read. Matching is case-insensitive
// and ignores surrounding whitespace. Name and Industry are optional.
type Columns struct {
	Symbol    string
	MarketCap string
	Name      string
	Industry  string
}

// DefaultURL is an S&P 500 constituent list with market caps in USD.
const DefaultURL = "https://raw.githubusercontent.com/datasets/s-and-p-500-companies-financials/main/data/constituents-financials.csv"

// DefaultColumns matches the layout of DefaultURL.
var DefaultColumns = Columns{
	Symbol:    "Symbol",
	MarketCap: "Market Cap",
	Name:      "Name",
	Industry:  "Sector",
}

// Parse reads a constituent CSV. Rows without a symbol are skipped. A missing
// or unparsable market cap leaves MarketCap invalid.
func Parse(r io.Reader, cols Columns) ([]domain.Constituent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	symbolIdx := columnIndex(header, cols.Symbol)
	if symbolIdx < 0 {
		return nil, fmt.Errorf("symbol column %q not found in header %v", cols.Symbol, header)
	}
	capIdx := columnIndex(header, cols.MarketCap)
	if capIdx < 0 {
		return nil, fmt.Errorf("market cap column %q not found in header %v", cols.MarketCap, header)
	}
	nameIdx := columnIndex(header, cols.Name)
	industryIdx := columnIndex(header, cols.Industry)

	var cons []domain.Constituent
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}

		sym := strings.ToUpper(field(record, symbolIdx))
		if sym == "" {
			continue
		}
		c := domain.Constituent{
			Symbol:   sym,
			Name:     field(record, nameIdx),
			Industry: field(record, industryIdx),
		}
		if raw := field(record, capIdx); raw != "" {
			v, err := parseMarketCap(raw)
			if err != nil {
				slog.Warn("unparsable market cap", "symbol", sym, "value", raw, "line", line)
			} else {
				c.MarketCap = decimal.NewNullDecimal(v)
			}
		}
		cons = append(cons, c)
	}
	return cons, nil
}

// Fetch downloads and parses the constituent CSV at url, retrying transient
// failures.
func Fetch(ctx context.Context, client *http.Client, url string, cols Columns) ([]domain.Constituent, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var cons []domain.Constituent
	err := util.Retry(ctx, 3, time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		// Some index publishers reject requests without a browser agent.
		req.Header.Set("User-Agent", "Mozilla/5.0 (momentum-backtest)")
		req.Header.Set("Accept", "text/csv,*/*")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: %s", url, resp.Status)
		}
		cons, err = Parse(resp.Body, cols)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching constituents: %w", err)
	}

	slog.Info("fetched constituents", "url", url, "count", len(cons))
	return cons, nil
}

// Symbols returns the symbols of cons in order.
func Symbols(cons []domain.Constituent) []string {
	out := make([]string, len(cons))
	for i, c := range cons {
		out[i] = c.Symbol
	}
	return out
}

func columnIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseMarketCap accepts plain and comma-grouped numbers ("1,23,456.70").
func parseMarketCap(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
}
