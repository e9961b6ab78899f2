// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// StoreNow returns the current UTC time truncated to the store's microsecond precision,
// so a timestamp echoed back to the client compares equal to the persisted value.
func StoreNow() time.Time {
	return UTCNow().Truncate(time.Microsecond)
}

// UTCNowUnix returns the current UTC time as Unix timestamp
func UTCNowUnix() int64 {
	return UTCNow().Unix()
}

// UTCNowRFC3339 returns the current UTC time in RFC3339 format
func UTCNowRFC3339() string {
	return UTCNow().Format(time.RFC3339)
}

// FormatTimestamp renders a store timestamp for API responses.
// Nanosecond precision is kept so the value can be echoed back as a concurrency token.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestampPtr parses an optional RFC3339 timestamp. Empty input yields nil.
func ParseTimestampPtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, err
	}
	utc := t.UTC()
	return &utc, nil
}
