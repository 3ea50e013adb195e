package strategy

import "errors"

// Input validation errors. Callers match them with errors.Is; the wrapped
// message carries the offending row or column.
var (
	ErrEmptyTable      = errors.New("empty table")
	ErrDateOrder       = errors.New("dates not strictly ascending")
	ErrShape           = errors.New("table shape mismatch")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidLookback = errors.New("lookback period must be positive")
	ErrNoSelector      = errors.New("no selector configured")
)
