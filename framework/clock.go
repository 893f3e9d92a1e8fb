package framework

import "time"

// Clock supplies "now" to components that reason about dates. Injecting it
// keeps symbolic ranges like "this_week" assertable in tests.
type Clock func() time.Time

// FixedClock returns a clock pinned to the given instant.
func FixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}
