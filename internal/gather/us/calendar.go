package us

import (
	"errors"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

// sessionSettled is the New York wall-clock time after which a day's
// adjusted daily bar is considered final.
const sessionSettled = 20*time.Hour + 5*time.Minute

// LatestFinishedTradingDay returns the most recent trading day whose session
// has ended and settled, using the Alpaca trading calendar. The result is a
// UTC-midnight date.
func LatestFinishedTradingDay(apiKey, apiSecret, baseURL string) (time.Time, error) {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})

	now := time.Now().In(newYork)
	days, err := client.GetCalendar(alpaca.GetCalendarRequest{
		Start: now.AddDate(0, 0, -10),
		End:   now,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("GetCalendar: %w", err)
	}
	return latestFinished(days, now)
}

func latestFinished(days []alpaca.CalendarDay, now time.Time) (time.Time, error) {
	if len(days) == 0 {
		return time.Time{}, errors.New("no trading days returned from calendar")
	}

	now = now.In(newYork)
	today := now.Format(time.DateOnly)
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, newYork).Add(sessionSettled)

	for i := len(days) - 1; i >= 0; i-- {
		day, err := time.Parse(time.DateOnly, days[i].Date)
		if err != nil {
			continue
		}
		switch {
		case days[i].Date == today:
			if now.After(cutoff) {
				return day, nil
			}
		case days[i].Date < today:
			return day, nil
		}
	}
	return time.Time{}, errors.New("could not determine latest finished trading day")
}
