package strategy

import (
	"fmt"
	"math"
	"time"
)

// Frame is a rectangular date × symbol table of float64 values. Values is
// indexed [row][column]; NaN marks an undefined cell.
type Frame struct {
	Dates   []time.Time
	Symbols []string
	Values  [][]float64
}

// newFrame allocates a frame over the given axes with every cell set to fill.
func newFrame(dates []time.Time, symbols []string, fill float64) *Frame {
	values := make([][]float64, len(dates))
	for r := range values {
		row := make([]float64, len(symbols))
		for c := range row {
			row[c] = fill
		}
		values[r] = row
	}
	return &Frame{Dates: dates, Symbols: symbols, Values: values}
}

// indexOf returns the row whose calendar date matches d, or -1.
func (f *Frame) indexOf(d time.Time) int {
	d = truncateDay(d)
	lo, hi := 0, len(f.Dates)
	for lo < hi {
		mid := (lo + hi) / 2
		if truncateDay(f.Dates[mid]).Before(d) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(f.Dates) && truncateDay(f.Dates[lo]).Equal(d) {
		return lo
	}
	return -1
}

func (f *Frame) sameShape(o *Frame) bool {
	if len(f.Dates) != len(o.Dates) || len(f.Symbols) != len(o.Symbols) {
		return false
	}
	for i := range f.Dates {
		if !f.Dates[i].Equal(o.Dates[i]) {
			return false
		}
	}
	for i := range f.Symbols {
		if f.Symbols[i] != o.Symbols[i] {
			return false
		}
	}
	return true
}

// PriceTable is a validated Frame of daily closes. Missing prices are NaN.
type PriceTable struct {
	Frame
}

// NewPriceTable validates the inputs and wraps them in a PriceTable. Dates
// must be strictly ascending, every row must have one value per symbol, and
// every present price must be positive and finite.
func NewPriceTable(dates []time.Time, symbols []string, values [][]float64) (*PriceTable, error) {
	if len(dates) == 0 || len(symbols) == 0 {
		return nil, ErrEmptyTable
	}
	if len(values) != len(dates) {
		return nil, fmt.Errorf("%w: %d rows for %d dates", ErrShape, len(values), len(dates))
	}
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrShape, s)
		}
		seen[s] = struct{}{}
	}
	for r, row := range values {
		if r > 0 && !dates[r].After(dates[r-1]) {
			return nil, fmt.Errorf("%w: %s follows %s", ErrDateOrder,
				dates[r].Format("2006-01-02"), dates[r-1].Format("2006-01-02"))
		}
		if len(row) != len(symbols) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d symbols", ErrShape, r, len(row), len(symbols))
		}
		for c, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if v <= 0 || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s %s = %v", ErrInvalidPrice,
					symbols[c], dates[r].Format("2006-01-02"), v)
			}
		}
	}
	return &PriceTable{Frame{Dates: dates, Symbols: symbols, Values: values}}, nil
}

// Series is a date-indexed sequence of values.
type Series struct {
	Dates  []time.Time
	Values []float64
}
