// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock reads so the link state machine's t1-t3 timer
// evaluation in SrvSession.run can be driven by a fake clock in tests
// instead of real time.
type Clock interface {
	Now() time.Time
}

// systemClock is the production Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// fakeClock is a test-driven Clock whose value only moves when Advance is
// called, letting timer tests assert exact t1/t2/t3 boundary behavior
// without sleeping real wall-clock time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
