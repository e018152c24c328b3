package core

import "time"

// Clock returns a monotonic millisecond counter. The counter wraps silently
// at 2^32 ms (about 49.7 days); all elapsed-time checks in this package are
// computed as `now - reference` in uint32 arithmetic, which stays correct
// across the wrap. Absolute timestamps are never compared directly.
type Clock func() uint32

// Millis is the default Clock, derived from the time package.
// Targets may substitute a hardware counter via New.
func Millis() uint32 {
	return uint32(time.Now().UnixMilli())
}
