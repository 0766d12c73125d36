package focustimer

import (
	"sync"
	"time"
)

// manualClock is a Clock whose time only moves when the test calls Advance.
// With leaky set, Stop reports success but the callback still fires, which
// reproduces a tick that raced with its cancellation.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
	leaky  bool
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	fired   bool
	stopped bool
}

func newManualClock() *manualClock {
	return &manualClock{}
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	if !c.leaky {
		t.stopped = true
	}
	return true
}

// Advance moves time forward by d, firing due callbacks in deadline order.
// Callbacks armed while advancing fire too if they fall inside the window.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.fired = true
		c.mu.Unlock()

		next.f()
	}
}

// Active counts armed callbacks that have neither fired nor been stopped.
func (c *manualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
