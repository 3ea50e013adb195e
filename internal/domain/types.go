// Package domain holds the value types shared across the momentum
// backtester: daily bars, markets, and index constituents.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Market identifies the exchange group a symbol trades in. It is also the
// top-level directory of the on-disk bar store.
type Market string

const (
	MarketUS Market = "us"
)

// Bar is a single daily OHLCV bar. Timestamp is the trading date at UTC
// midnight.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// Constituent is one row of an index constituent list.
type Constituent struct {
	Symbol    string
	Name      string
	Industry  string
	MarketCap decimal.NullDecimal // invalid when the source had no usable value
}
