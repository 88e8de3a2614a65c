package domain

import (
	"strings"
	"time"
)

// DatetimeLayout is the naive UTC form returned for last-updated queries.
const DatetimeLayout = "2006-01-02T15:04:05"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without an offset are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, InvalidInput("last_updated_timestamp is required")
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, InvalidInput("invalid ISO-8601 timestamp %q", s)
}

// FormatDatetime renders t the way last-updated responses expect.
func FormatDatetime(t time.Time) string {
	return t.UTC().Format(DatetimeLayout)
}

// EpochSeconds truncates t to whole seconds since the epoch.
func EpochSeconds(t time.Time) int64 {
	return t.Unix()
}

// FromEpochSeconds is the inverse of EpochSeconds.
func FromEpochSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
