package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Hosts use it to fill ViewState.Today.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the local calendar date of c as a date-only value. The local
// wall date is kept; a user in Tokyo at 01:00 is already on the next day even
// if UTC is not.
func Today(c Clock) time.Time {
	return DateOnly(c.Now())
}
