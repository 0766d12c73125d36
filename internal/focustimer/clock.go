package focustimer

import "time"

// Stopper cancels a scheduled callback. Stop reports whether the call
// prevented the callback from running.
type Stopper interface {
	Stop() bool
}

// Clock schedules one-shot callbacks. The timer arms a fresh one-second
// callback for every tick, so a one-shot primitive is all it needs.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// wallClock schedules callbacks with the runtime timer.
type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// WallClock returns the Clock backed by real time.
func WallClock() Clock {
	return wallClock{}
}
