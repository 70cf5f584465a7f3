package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a settable wall clock for tests.
//
// Unlike store.SystemClock, FixedClock only moves when told to. This lets a
// test pin "today" and then step across retention boundaries.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock reading now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// NewFixedClockOn creates a clock reading noon UTC on the given ISO date.
// Panics on a malformed date.
func NewFixedClockOn(isoDate string) *FixedClock {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		panic(err)
	}
	return NewFixedClock(t.Add(12 * time.Hour))
}

// Now returns the current time of the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// AdvanceDays moves the clock n calendar days forward (or back if n < 0).
func (c *FixedClock) AdvanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}
