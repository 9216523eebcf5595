package models

import "time"

// DateOnly truncates a timestamp to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b,
// ignoring the time-of-day portion of both.
func DaysBetween(a, b time.Time) int {
	a = DateOnly(a)
	b = DateOnly(b)
	// Rounding absorbs the 23h/25h days around DST transitions.
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

// DayBounds returns the inclusive start and end of the calendar day
// containing t, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := DateOnly(t)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// WeekdayIndex maps time.Weekday onto the 0=Monday..6=Sunday convention
// used by schedule weekday sets.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// MinuteOfDay returns the minutes elapsed since midnight for t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
