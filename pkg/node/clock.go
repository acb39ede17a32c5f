package node

import (
	"errors"
	"sync"
	"time"
)

// SimEpoch is the instant a simulated clock starts at
var SimEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// SimClock is a simulated time source that only moves when advanced.
// Scenarios use it so aging can be demonstrated without sleeping.
type SimClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewSimClock creates a clock at SimEpoch
func NewSimClock() *SimClock {
	return &SimClock{now: SimEpoch}
}

// Now returns the current simulated time
func (c *SimClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *SimClock) Advance(d time.Duration) error {
	if d < 0 {
		return errors.New("clock cannot move backwards")
	}

	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

// Elapsed returns the simulated time since SimEpoch
func (c *SimClock) Elapsed() time.Duration {
	return c.Now().Sub(SimEpoch)
}
