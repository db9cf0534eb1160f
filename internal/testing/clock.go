// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"sync"
	"time"

	"github.com/juju/clock/testclock"
)

// Epoch is the time every RecordingClock starts at.
var Epoch = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

// RecordingClock is a test clock whose After channel fires at once, after
// moving time forward by the requested delay. Every requested delay is
// recorded so that tests can assert on the sleeps of a polling loop
// without waiting for them.
type RecordingClock struct {
	*testclock.Clock

	mu     sync.Mutex
	delays []time.Duration
}

// NewRecordingClock returns a RecordingClock set to Epoch.
func NewRecordingClock() *RecordingClock {
	return &RecordingClock{Clock: testclock.NewClock(Epoch)}
}

// After is part of the clock.Clock interface.
func (c *RecordingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.mu.Unlock()

	c.Clock.Advance(d)
	ch := make(chan time.Time, 1)
	ch <- c.Clock.Now()
	return ch
}

// Delays returns every delay passed to After, in order.
func (c *RecordingClock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}
