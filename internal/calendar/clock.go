package calendar

import "time"

// Clock abstracts time.Now() so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in Location (local time when nil).
type RealClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c RealClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the clock's current calendar date, normalised.
func Today(c Clock) time.Time {
	return Normalize(c.Now())
}
