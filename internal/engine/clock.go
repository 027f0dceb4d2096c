package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The tick loop samples it once per second to build a Sample.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ClockStyle reports whether the host displays time in 24-hour style.
type ClockStyle interface {
	Is24h() bool
}

// FixedStyle is a ClockStyle that never changes.
type FixedStyle bool

// Is24h returns the fixed style.
func (f FixedStyle) Is24h() bool {
	return bool(f)
}
