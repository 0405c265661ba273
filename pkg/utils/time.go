package utils

import "time"

// ISOLayout matches the millisecond precision ISO-8601 form used in exported catalogs
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatISO formats an instant in UTC with millisecond precision
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO parses an ISO-8601 instant. Any RFC3339 precision is accepted.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
