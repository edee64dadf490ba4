package ports

import "time"

// Clock provides the current time to the frame scheduler.
// Hosts pass a wall clock; tests pass a manually advanced one.
type Clock interface {
	Now() time.Time
}
