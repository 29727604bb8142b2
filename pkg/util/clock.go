package util

import (
	"sync"
	"time"
)

// Clock abstracts time so order monitors can be driven tick-by-tick in
// tests instead of sleeping through real polling intervals.
type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

type RealClock struct{}

func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (RealClock) Now() time.Time                         { return time.Now() }

// ManualClock is a test clock. After ignores the duration and returns a
// shared channel; each Tick releases exactly one waiter.
type ManualClock struct {
	mu sync.Mutex
	ch chan time.Time
}

func NewManualClock() *ManualClock {
	return &ManualClock{ch: make(chan time.Time)}
}

func (c *ManualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch
}

func (c *ManualClock) Now() time.Time { return time.Now() }

// Tick unblocks one pending After. Blocks until a waiter is ready, which
// keeps tests deterministic: when Tick returns, the tick has been taken.
func (c *ManualClock) Tick() {
	c.ch <- time.Now()
}
