// Package clock abstracts the wall clock so run timestamps are deterministic
// in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// StepClock returns a fixed start time and moves forward by Step on every
// call, so elapsed durations computed from it are predictable.
type StepClock struct {
	next time.Time
	step time.Duration
}

// NewStepClock creates a StepClock starting at start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current fake time and advances it.
func (c *StepClock) Now() time.Time {
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}
