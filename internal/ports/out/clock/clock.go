package clock

import "time"

// Clock provides time to the application. An interface keeps creation and
// booking timestamps deterministic in tests.
type Clock interface {
	Now() time.Time
}
