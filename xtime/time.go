package xtime

import "time"

// Source is the source of time information.
type Source interface {
	Now() time.Time
}

// System is the Source backed by the system clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a Source that always returns the same time. It's useful in tests.
type Fixed time.Time

// Now returns the fixed time.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
