// Package gather defines the interface shared by the data download jobs.
package gather

import (
	"context"
	"fmt"
	"time"
)

// Gatherer is the interface for all data gathering processes.
type Gatherer interface {
	// Name returns the gatherer identifier.
	Name() string
	// Run performs the download. It returns early if ctx is cancelled.
	Run(ctx context.Context) error
}

// DateRange represents an inclusive range of trading dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses YYYY-MM-DD bounds. An empty end falls back to
// defaultEnd.
func ParseDateRange(start, end string, defaultEnd time.Time) (DateRange, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("parsing start date %q: %w", start, err)
	}
	e := defaultEnd
	if end != "" {
		if e, err = time.Parse(time.DateOnly, end); err != nil {
			return DateRange{}, fmt.Errorf("parsing end date %q: %w", end, err)
		}
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("end date %s before start date %s", e.Format(time.DateOnly), start)
	}
	return DateRange{Start: s, End: e}, nil
}
