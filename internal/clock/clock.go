// Package clock is the time source for event timestamps and run start times.
package clock

import "time"

// NowFunc returns the current time. Tests override it to pin timestamps.
var NowFunc = time.Now

// Now returns NowFunc().
func Now() time.Time { return NowFunc() }

// Since reports the time elapsed since t according to NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }
