package util

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Retry calls fn up to maxAttempts times with exponential backoff starting at
// baseDelay. It returns nil on the first success, or the last error wrapped
// with the attempt count. Context cancellation between attempts stops the
// loop early.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	maxAttempts = max(maxAttempts, 1)

	var err error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		slog.Debug("retrying", "attempt", attempt, "delay", delay, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, err)
}
