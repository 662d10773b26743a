package clock

import (
	"sync"
	"time"
)

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FrameClock is a clock that only moves when the host frame loop advances it.
// Headless simulations use it so that game time is independent of wall time.
type FrameClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFrameClock creates a FrameClock starting at start
func NewFrameClock(start time.Time) *FrameClock {
	return &FrameClock{now: start}
}

// Now returns the current frame time
func (c *FrameClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves frame time forward by one frame of length d
func (c *FrameClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
