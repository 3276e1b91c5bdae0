package state

import (
	"sync"

	"github.com/google/uuid"
)

// Clock is a Lamport clock ordering board operations across sites.
type Clock struct {
	counter uint64
	mu      sync.Mutex
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Update moves the clock forward past a received timestamp.
func (c *Clock) Update(ts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.counter {
		c.counter = ts
	}
}

// Now returns the current value without advancing.
func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}

// NewID returns a fresh entity identity.
func NewID() string {
	return uuid.NewString()
}
