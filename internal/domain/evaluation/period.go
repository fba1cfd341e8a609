// internal/domain/evaluation/period.go
package evaluation

import "time"

// Period is one of the six fixed two-month evaluation windows of a year
// (Jan-Feb, Mar-Apr, May-Jun, Jul-Aug, Sep-Oct, Nov-Dec). Start and End
// are UTC dates at midnight, both inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodFor returns the bimonthly window enclosing the given date.
// The end day of February follows from time.Date normalization, so leap
// years need no special handling here.
func PeriodFor(t time.Time) Period {
	firstMonth := time.Month((int(t.Month())-1)/2*2 + 1)
	start := time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the month after the window is the window's last day.
	end := time.Date(t.Year(), firstMonth+2, 0, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: end}
}

// DateOf truncates a timestamp to its calendar date, anchored in UTC so
// that day arithmetic is zone-independent.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole calendar days from a to b.
// Negative when b precedes a. Both arguments are expected to be
// midnight UTC dates (see DateOf).
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
