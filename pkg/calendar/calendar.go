// Package calendar holds the date helpers used when issuing invoices.
package calendar

import "time"

// Clock returns the current time. Services take a Clock so tests can pin "now".
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// IsWeekend reports whether t falls on a Saturday or Sunday in its own location.
func IsWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// AddBusinessDays walks forward from start one calendar day at a time and
// returns the day on which the n-th weekday is reached. Weekends are stepped
// over without being counted; holidays are not considered. The time of day of
// start is preserved. n <= 0 returns start unchanged.
func AddBusinessDays(start time.Time, n int) time.Time {
	current := start
	for added := 0; added < n; {
		current = current.AddDate(0, 0, 1)
		if !IsWeekend(current) {
			added++
		}
	}
	return current
}
