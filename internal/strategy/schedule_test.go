package strategy

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in   string
		want Frequency
	}{
		{"D", Frequency{Kind: Daily}},
		{"d", Frequency{Kind: Daily}},
		{"W", Frequency{Kind: Weekly, Weekday: time.Sunday}},
		{"W-TUE", Frequency{Kind: Weekly, Weekday: time.Tuesday}},
		{" w-fri ", Frequency{Kind: Weekly, Weekday: time.Friday}},
	}
	for _, tc := range tests {
		got, err := ParseFrequency(tc.in)
		if err != nil {
			t.Errorf("ParseFrequency(%q) error: %v", tc.in, err)
			continue
		}
		if got.Kind != tc.want.Kind || (got.Kind == Weekly && got.Weekday != tc.want.Weekday) {
			t.Errorf("ParseFrequency(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "M", "W-XYZ", "weekly"} {
		if _, err := ParseFrequency(bad); err == nil {
			t.Errorf("ParseFrequency(%q) returned no error", bad)
		}
	}
}

func TestFrequencyString(t *testing.T) {
	if s := (Frequency{Kind: Weekly, Weekday: time.Tuesday}).String(); s != "W-TUE" {
		t.Errorf("String() = %q, want W-TUE", s)
	}
	if s := (Frequency{Kind: Daily}).String(); s != "D" {
		t.Errorf("String() = %q, want D", s)
	}
}

func TestCandidateDatesWeekly(t *testing.T) {
	// 2024-01-03 is a Wednesday; the first Tuesday on or after it is the 9th.
	got := CandidateDates(date(2024, 1, 3), date(2024, 1, 30), Frequency{Kind: Weekly, Weekday: time.Tuesday})
	want := []time.Time{date(2024, 1, 9), date(2024, 1, 16), date(2024, 1, 23), date(2024, 1, 30)}

	if len(got) != len(want) {
		t.Fatalf("CandidateDates returned %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCandidateDatesInclusiveBounds(t *testing.T) {
	// Both bounds are Tuesdays.
	got := CandidateDates(date(2024, 1, 2), date(2024, 1, 16), Frequency{Kind: Weekly, Weekday: time.Tuesday})
	if len(got) != 3 || !got[0].Equal(date(2024, 1, 2)) || !got[2].Equal(date(2024, 1, 16)) {
		t.Errorf("CandidateDates = %v, want [Jan 2, Jan 9, Jan 16]", got)
	}

	daily := CandidateDates(date(2024, 2, 27), date(2024, 3, 1), Frequency{Kind: Daily})
	if len(daily) != 4 {
		t.Errorf("daily CandidateDates over leap day = %d dates, want 4", len(daily))
	}

	if got := CandidateDates(date(2024, 2, 1), date(2024, 1, 1), Frequency{Kind: Daily}); got != nil {
		t.Errorf("CandidateDates with end before start = %v, want nil", got)
	}
}

func TestResolveDatesSkipsHolidays(t *testing.T) {
	// Trading calendar without Tuesday 2024-01-09.
	calendar := []time.Time{
		date(2024, 1, 2), date(2024, 1, 3), date(2024, 1, 4), date(2024, 1, 5),
		date(2024, 1, 8), date(2024, 1, 10), date(2024, 1, 11), date(2024, 1, 12),
		date(2024, 1, 15), date(2024, 1, 16), date(2024, 1, 17), date(2024, 1, 18), date(2024, 1, 19),
	}
	candidates := CandidateDates(calendar[0], calendar[len(calendar)-1], Frequency{Kind: Weekly, Weekday: time.Tuesday})

	got := ResolveDates(candidates, calendar)
	want := []time.Time{date(2024, 1, 2), date(2024, 1, 16)}
	if len(got) != len(want) {
		t.Fatalf("ResolveDates = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("resolved %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResolveDatesWeekendAnchor(t *testing.T) {
	calendar := []time.Time{date(2024, 1, 5), date(2024, 1, 8), date(2024, 1, 12), date(2024, 1, 15)}
	candidates := CandidateDates(calendar[0], calendar[len(calendar)-1], Frequency{Kind: Weekly, Weekday: time.Sunday})

	if got := ResolveDates(candidates, calendar); len(got) != 0 {
		t.Errorf("Sunday-anchored dates resolved to %v on a weekday calendar, want none", got)
	}
}

func TestRebalanceDates(t *testing.T) {
	f := &Frame{Dates: tradingDays(14)} // Mon 2024-01-01 .. Sun 2024-01-14
	got := RebalanceDates(f, Frequency{Kind: Weekly, Weekday: time.Monday})
	if len(got) != 2 || !got[0].Equal(date(2024, 1, 1)) || !got[1].Equal(date(2024, 1, 8)) {
		t.Errorf("RebalanceDates = %v, want [Jan 1, Jan 8]", got)
	}

	if got := RebalanceDates(&Frame{}, Frequency{Kind: Daily}); got != nil {
		t.Errorf("RebalanceDates on empty frame = %v, want nil", got)
	}
}
