package utils

import (
	"strconv"
	"time"
)

// ParseCRMTimestamp parses the date formats HubSpot emits for deal and
// company properties: RFC 3339 or milliseconds since epoch. Empty input
// yields nil without error.
func ParseCRMTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// DaysBetween returns whole days from earlier to later, truncated.
func DaysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
