package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"momentum/internal/domain"
	"momentum/internal/store"
)

func TestBacktesterParams(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubSelector{name: "top", n: 2})
	bt := NewBacktester(store.NewParquetStore(t.TempDir()), r, domain.MarketUS)

	p, err := bt.Params(BacktestConfig{Lookback: 5, RebalanceFreq: "W-WED", Selector: "top", Hold: "carry"})
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Lookback != 5 || p.Frequency.Weekday != time.Wednesday || p.Selector.Name() != "top" || p.Hold != HoldCarry {
		t.Errorf("Params = %+v", p)
	}

	if _, err := bt.Params(BacktestConfig{Lookback: 5, RebalanceFreq: "W", Selector: "missing"}); !errors.Is(err, ErrNoSelector) {
		t.Errorf("Params(missing selector) error = %v, want ErrNoSelector", err)
	}
	if _, err := bt.Params(BacktestConfig{Lookback: 5, RebalanceFreq: "Q", Selector: "top"}); err == nil {
		t.Error("Params(bad frequency) returned no error")
	}
}

func TestBacktesterRun(t *testing.T) {
	ps := store.NewParquetStore(t.TempDir())

	// UP rises 1% a day, DOWN falls 1% a day, Mon 2024-01-01 .. Fri 2024-01-26 (weekdays only).
	up := map[time.Time]float64{}
	down := map[time.Time]float64{}
	pu, pd := 100.0, 100.0
	var weekdays []time.Time
	for d := date(2024, 1, 1); !d.After(date(2024, 1, 26)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		weekdays = append(weekdays, d)
		up[d], down[d] = pu, pd
		pu *= 1.01
		pd *= 0.99
	}
	writeCloses(t, ps, "UP", up)
	writeCloses(t, ps, "DOWN", down)

	r := NewRegistry()
	r.Register(&stubSelector{name: "top", n: 1})
	bt := NewBacktester(ps, r, domain.MarketUS)

	res, sum, err := bt.Run(context.Background(),
		BacktestConfig{Lookback: 2, RebalanceFreq: "W-TUE", Selector: "top", Hold: "carry"},
		[]string{"DOWN", "UP"}, date(2024, 1, 1), date(2024, 1, 31))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Returns.Values) != len(weekdays) {
		t.Fatalf("Returns has %d values, want %d", len(res.Returns.Values), len(weekdays))
	}
	// Tuesdays 2, 9, 16, 23; the first has no momentum yet.
	if sum.Rebalances != 4 {
		t.Errorf("Rebalances = %d, want 4", sum.Rebalances)
	}
	for r, row := range res.Weights.Values {
		if row[0] != 0 {
			t.Errorf("DOWN weight on row %d = %v, want 0", r, row[0])
		}
	}
	if sum.CumulativeReturn <= 0 {
		t.Errorf("CumulativeReturn = %v, want positive when holding UP", sum.CumulativeReturn)
	}
}
