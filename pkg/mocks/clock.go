package mocks

import (
	"time"

	"github.com/user/vidplay/pkg/ports"
)

// Clock is a fake ports.Clock. Sleep advances the clock instantly.
type Clock struct {
	now    time.Time
	Sleeps []time.Duration
}

// NewClock creates a fake clock starting at an arbitrary fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	return c.now
}

func (c *Clock) Sleep(d time.Duration) {
	c.Sleeps = append(c.Sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

// Advance moves the clock forward without recording a sleep.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

var _ ports.Clock = (*Clock)(nil)
