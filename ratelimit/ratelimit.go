/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Default admission rate imposed by the remote store.
const (
	DefaultCalls  = 5
	DefaultWindow = time.Second
)

// Limiter throttles admission of outbound store calls to at most calls
// starts per window. It limits admission rate only, not concurrency:
// how many calls are logically in flight at once is governed elsewhere.
// Excess callers queue in arrival order and are released as the window
// admits capacity.
type Limiter struct {
	rl *rate.Limiter
}

// New returns a Limiter admitting at most calls operation starts per window.
func New(calls int, window time.Duration) *Limiter {
	if calls <= 0 {
		calls = DefaultCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		rl: rate.NewLimiter(rate.Every(window/time.Duration(calls)), calls),
	}
}

// Wait blocks until an admission slot opens or ctx is done. A slot is
// consumed at call start; whether the guarded operation later fails has
// no bearing on capacity accounting, and the limiter never retries on
// the caller's behalf.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}

// Allow reports whether a slot is available right now, consuming it if so.
func (l *Limiter) Allow() bool {
	return l.rl.Allow()
}
