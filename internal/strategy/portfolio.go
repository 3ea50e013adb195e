package strategy

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// HoldPolicy controls what the portfolio holds between rebalance dates.
type HoldPolicy string

const (
	// HoldFlat sets weights only on rebalance dates; every other date holds
	// nothing.
	HoldFlat HoldPolicy = "flat"
	// HoldCarry keeps the last rebalance's weights until the next one.
	HoldCarry HoldPolicy = "carry"
)

// ParseHoldPolicy maps a config value to a HoldPolicy. Empty means flat.
func ParseHoldPolicy(s string) (HoldPolicy, error) {
	switch HoldPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", HoldFlat:
		return HoldFlat, nil
	case HoldCarry:
		return HoldCarry, nil
	}
	return "", fmt.Errorf("unknown hold policy %q (want %q or %q)", s, HoldFlat, HoldCarry)
}

// BuildPortfolio assigns equal weights to the selector's picks on each
// rebalance date and returns a dense weight table over every date of
// momentum. Rebalance dates absent from the table are ignored. A date with no
// defined momentum gets an all-zero row.
func BuildPortfolio(momentum *Frame, rebalance []time.Time, sel Selector, hold HoldPolicy) (*Frame, error) {
	if sel == nil {
		return nil, ErrNoSelector
	}
	weights := newFrame(momentum.Dates, momentum.Symbols, 0)

	set := make([]bool, len(momentum.Dates))
	for _, d := range rebalance {
		r := momentum.indexOf(d)
		if r < 0 {
			continue
		}
		set[r] = true

		picks := sel.Select(definedScores(momentum, r))
		if len(picks) == 0 {
			continue
		}
		w := 1 / float64(len(picks))
		for _, p := range picks {
			weights.Values[r][p.Col] = w
		}
	}

	if hold == HoldCarry {
		for r := 1; r < len(weights.Values); r++ {
			if !set[r] {
				copy(weights.Values[r], weights.Values[r-1])
			}
		}
	}
	return weights, nil
}

func definedScores(momentum *Frame, r int) []Score {
	row := momentum.Values[r]
	scores := make([]Score, 0, len(row))
	for c, v := range row {
		if math.IsNaN(v) {
			continue
		}
		scores = append(scores, Score{Col: c, Symbol: momentum.Symbols[c], Value: v})
	}
	return scores
}
