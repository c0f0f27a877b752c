package report

import "time"

// Clock supplies the time reports are stamped with.
type Clock func() time.Time

var now Clock = time.Now

// SetClock replaces the report clock; the returned func restores the previous one.
func SetClock(c Clock) (restore func()) {
	prev := now
	now = c
	return func() { now = prev }
}

// FormatTimestamp renders t as an RFC3339 UTC timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
