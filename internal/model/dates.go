package model

import "time"

// DateLayout is the wire format for day-granular dates.
const DateLayout = "2006-01-02"

// DateOnly strips the time-of-day component. Every date comparison in the
// engine happens at day granularity in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
