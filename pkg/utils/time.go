package utils

import (
	"time"
)

// FormatTimestamp formats a timestamp to RFC3339
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimestamp parses a timestamp from RFC3339 format
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// NowUTC returns the current time in UTC truncated to whole seconds, the
// precision FormatTimestamp keeps
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
