package domain

import "time"

// Stay is a half-open range of calendar dates [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps uses half-open semantics, so a stay ending on the day another
// begins does not overlap it.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && s.CheckOut.After(other.CheckIn)
}

// Date truncates t to its calendar date, expressed as midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
