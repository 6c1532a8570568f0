// Package duration provides parsing for human-readable duration strings.
package duration

import (
	"fmt"
	"time"
)

// ParseWindow parses human-readable windows like "1w", "30d", "6mo" and
// returns the time that far in the past from now. Taking now as an
// argument keeps window arithmetic reproducible under test.
func ParseWindow(s string, now time.Time) (time.Time, error) {
	var d time.Duration
	var n int
	var unit string

	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration format: %s (use e.g., 1w, 30d, 6mo)", s)
	}

	switch unit {
	case "h", "hr", "hrs", "hour", "hours":
		d = time.Duration(n) * time.Hour
	case "d", "day", "days":
		d = time.Duration(n) * 24 * time.Hour
	case "w", "wk", "wks", "week", "weeks":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "mo", "month", "months":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "y", "yr", "yrs", "year", "years":
		d = time.Duration(n) * 365 * 24 * time.Hour
	default:
		return time.Time{}, fmt.Errorf("unknown duration unit: %s", unit)
	}

	return now.Add(-d), nil
}
