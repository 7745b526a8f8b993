package pricing

import (
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
)

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(domain.Date(b).Sub(domain.Date(a)).Hours() / 24)
}

// Nights returns the billable nights for a stay, never less than one.
func Nights(checkIn, checkOut time.Time) int {
	n := DaysBetween(checkIn, checkOut)
	if n < 1 {
		return 1
	}
	return n
}

// Today returns the calendar date of now as seen in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return domain.Date(now.In(loc))
}
