package strategy

import (
	"fmt"
	"strings"
	"time"
)

// FrequencyKind is the cadence of candidate rebalance dates.
type FrequencyKind int

const (
	Daily FrequencyKind = iota
	Weekly
)

// Frequency describes a fixed rebalance cadence. Weekday anchors Weekly
// frequencies and is ignored for Daily.
type Frequency struct {
	Kind    FrequencyKind
	Weekday time.Weekday
}

var weekdayCodes = map[string]time.Weekday{
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

// ParseFrequency parses a pandas-style offset alias: "D" for every calendar
// day, "W" for weekly on Sunday, or "W-MON" … "W-SUN" for weekly on the
// given weekday.
func ParseFrequency(s string) (Frequency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case code == "D":
		return Frequency{Kind: Daily}, nil
	case code == "W":
		return Frequency{Kind: Weekly, Weekday: time.Sunday}, nil
	case strings.HasPrefix(code, "W-"):
		wd, ok := weekdayCodes[strings.TrimPrefix(code, "W-")]
		if !ok {
			return Frequency{}, fmt.Errorf("unknown weekday in frequency %q", s)
		}
		return Frequency{Kind: Weekly, Weekday: wd}, nil
	}
	return Frequency{}, fmt.Errorf("unsupported rebalance frequency %q", s)
}

func (f Frequency) String() string {
	if f.Kind == Daily {
		return "D"
	}
	return "W-" + strings.ToUpper(f.Weekday.String()[:3])
}

// CandidateDates returns every date in [start, end] on the frequency's
// cadence, ascending. Times of day are discarded.
func CandidateDates(start, end time.Time, f Frequency) []time.Time {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil
	}

	step := 1
	first := start
	if f.Kind == Weekly {
		step = 7
		offset := (int(f.Weekday) - int(start.Weekday()) + 7) % 7
		first = start.AddDate(0, 0, offset)
	}

	var dates []time.Time
	for d := first; !d.After(end); d = d.AddDate(0, 0, step) {
		dates = append(dates, d)
	}
	return dates
}

// ResolveDates keeps the candidates that appear exactly in calendar. A
// candidate with no matching trading date is skipped; there is no
// nearest-day fallback.
func ResolveDates(candidates, calendar []time.Time) []time.Time {
	trading := make(map[time.Time]struct{}, len(calendar))
	for _, d := range calendar {
		trading[truncateDay(d)] = struct{}{}
	}

	var resolved []time.Time
	for _, d := range candidates {
		if _, ok := trading[truncateDay(d)]; ok {
			resolved = append(resolved, d)
		}
	}
	return resolved
}

// RebalanceDates schedules and resolves rebalance dates over the full span
// of the given frame's calendar.
func RebalanceDates(f *Frame, freq Frequency) []time.Time {
	if len(f.Dates) == 0 {
		return nil
	}
	candidates := CandidateDates(f.Dates[0], f.Dates[len(f.Dates)-1], freq)
	return ResolveDates(candidates, f.Dates)
}

// truncateDay maps t to midnight UTC of its calendar date.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
