package utils

import "time"

// AddCalendarMonths advances t by whole calendar months, clamping to the
// last day of the target month when the source day does not exist there
// (Jan 31 + 1 month = Feb 28, or Feb 29 in a leap year).
func AddCalendarMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); d > last {
		d = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddCalendarYears advances t by whole years with the same clamping rule
// (Feb 29 + 1 year = Feb 28).
func AddCalendarYears(t time.Time, years int) time.Time {
	return AddCalendarMonths(t, 12*years)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOnly truncates t to midnight UTC. Date-keyed records (movements,
// snapshots) store and compare at this granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
