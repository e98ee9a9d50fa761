package util

import (
	"fmt"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

const minEpochMillisDigits = 10

func ParseTimeFlexible(timeStr string) (time.Time, error) {
	// Try parsing as RFC3339 (ISO 8601)
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil // Convert to UTC
	}
	t, err = time.Parse(time.RFC3339, timeStr) // Try without nano
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(DateLayout, timeStr)
	if err == nil {
		return t, nil
	}

	// Try parsing as epoch milliseconds. Shorter digit strings are years or compact dates, not
	// timestamps.
	ms, err := strconv.ParseInt(timeStr, 10, 64)
	if err == nil && len(timeStr) >= minEpochMillisDigits {
		return time.UnixMilli(ms).UTC(), nil // Convert to UTC
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// ParseDate accepts any format ParseTimeFlexible does and returns the calendar day in the
// YYYY-MM-DD form the reporting API expects.
func ParseDate(s string) (string, error) {
	t, err := ParseTimeFlexible(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
