package universe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"momentum/internal/domain"
)

// Bucket is a market-capitalization slice of the constituent list.
type Bucket string

const (
	LargeCap Bucket = "LARGECAP"
	MidCap   Bucket = "MIDCAP"
	SmallCap Bucket = "SMALLCAP"
	All      Bucket = "ALL"
)

// DefaultBucketSize is the number of constituents in each sized bucket.
const DefaultBucketSize = 150

// ParseBucket maps a config or flag value to a Bucket. Empty means All.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToUpper(strings.TrimSpace(s))); b {
	case "":
		return All, nil
	case LargeCap, MidCap, SmallCap, All:
		return b, nil
	}
	return "", fmt.Errorf("unknown capitalization bucket %q", s)
}

// SelectBucket ranks cons by market cap ascending, unknown caps last, and
// slices out the bucket:
// LargeCap is the size largest, MidCap the size below those, SmallCap the
// size smallest, and All everything in original order. Short lists yield
// short (possibly empty) buckets rather than an error.
func SelectBucket(cons []domain.Constituent, b Bucket, size int) []domain.Constituent {
	if b == All {
		return append([]domain.Constituent(nil), cons...)
	}
	if size <= 0 {
		size = DefaultBucketSize
	}

	ranked := append([]domain.Constituent(nil), cons...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return capLess(ranked[i].MarketCap, ranked[j].MarketCap)
	})

	n := len(ranked)
	var lo, hi int
	switch b {
	case LargeCap:
		lo, hi = n-size, n
	case MidCap:
		lo, hi = n-2*size, n-size
	case SmallCap:
		lo, hi = 0, size
	default:
		return nil
	}
	lo, hi = max(lo, 0), min(max(hi, 0), n)
	if lo >= hi {
		return nil
	}
	return ranked[lo:hi]
}

func capLess(a, b decimal.NullDecimal) bool {
	if !a.Valid {
		return false
	}
	if !b.Valid {
		return true
	}
	return a.Decimal.LessThan(b.Decimal)
}
