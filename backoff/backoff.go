// Package backoff bounds the wait a worker takes after an aborted
// transaction before retrying, so a continuously-aborting worker does not
// monopolize the memory subsystem. The exact distribution is unspecified by
// design; this wraps a real exponential-backoff-with-jitter implementation
// rather than hand-rolling one.
package backoff

import (
	"time"

	cb "github.com/cenkalti/backoff/v4"
)

// Backoff is a per-worker exponential back-off schedule, reset on every
// commit so a fresh abort streak starts cold.
type Backoff struct {
	b *cb.ExponentialBackOff
}

// New builds a back-off schedule with a small initial interval and a
// bounded ceiling: each wait is non-zero and bounded, but retries never
// stop on their own (MaxElapsedTime disabled) since the core assumes
// infinite retry.
func New() *Backoff {
	b := cb.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Microsecond
	b.MaxInterval = 2 * time.Millisecond
	b.Multiplier = 1.5
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	return &Backoff{b: b}
}

// Wait sleeps for the next interval in the schedule and advances it.
func (bo *Backoff) Wait() {
	d := bo.b.NextBackOff()
	if d == cb.Stop {
		d = bo.b.InitialInterval
	}
	time.Sleep(d)
}

// Reset restarts the exponential schedule from its initial interval.
func (bo *Backoff) Reset() {
	bo.b.Reset()
}
