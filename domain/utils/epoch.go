package utils

import "time"

// EpochStart returns the most recent daily boundary at or before t. The
// boundary is hour:minute wall-clock time in loc.
func EpochStart(t time.Time, loc *time.Location, hour, minute int) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	boundary := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if boundary.After(local) {
		boundary = time.Date(local.Year(), local.Month(), local.Day()-1, hour, minute, 0, 0, loc)
	}
	return boundary
}

// NextEpochStart returns the first daily boundary strictly after t
func NextEpochStart(t time.Time, loc *time.Location, hour, minute int) time.Time {
	start := EpochStart(t, loc, hour, minute)
	return time.Date(start.Year(), start.Month(), start.Day()+1, hour, minute, 0, 0, start.Location())
}

// SameEpoch reports whether a and b fall in the same daily window
func SameEpoch(a, b time.Time, loc *time.Location, hour, minute int) bool {
	return EpochStart(a, loc, hour, minute).Equal(EpochStart(b, loc, hour, minute))
}
