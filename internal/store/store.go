// Package store defines storage interfaces for persisting and retrieving
// daily bars and index constituent snapshots.
package store

import (
	"context"
	"time"

	"momentum/internal/domain"
)

// BarStore persists and retrieves daily OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars to storage.
	WriteBars(ctx context.Context, market domain.Market, bars []domain.Bar) error

	// ReadBars returns bars for the given symbol and market within [start, end].
	ReadBars(ctx context.Context, symbol string, market domain.Market, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols available in the given market.
	ListSymbols(ctx context.Context, market domain.Market) ([]string, error)
}

// ConstituentStore persists dated snapshots of an index constituent list.
type ConstituentStore interface {
	// SaveConstituents replaces the snapshot for the given date.
	SaveConstituents(ctx context.Context, date time.Time, cons []domain.Constituent) error

	// LoadConstituents returns the snapshot for the given date, in the order
	// it was saved.
	LoadConstituents(ctx context.Context, date time.Time) ([]domain.Constituent, error)

	// LatestSnapshot returns the most recent snapshot date. ok is false when
	// nothing has been saved.
	LatestSnapshot(ctx context.Context) (date time.Time, ok bool, err error)
}
