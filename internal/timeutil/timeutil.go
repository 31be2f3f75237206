package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// UTCDate names the UTC day t falls on. Snapshots are keyed by it.
func UTCDate(t time.Time) string {
	return FormatDate(t.UTC())
}

// RetentionCutoff returns UTC midnight days before now's UTC day. Dates
// strictly before it are out of retention.
func RetentionCutoff(now time.Time, days int) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}
