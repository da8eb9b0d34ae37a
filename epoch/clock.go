// Package epoch implements the Silo-only epoch advancer: a coarse,
// monotone counter that bounds how far apart two commits on the same
// record can be reordered, and the single goroutine that advances it once
// every worker has observed the current value.
package epoch

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock is the global epoch counter plus the per-worker array of last-seen
// epoch values (ThLocalEpoch[w] in the source). It is owned by the
// top-level run context and threaded by reference to every worker and to
// the advancer goroutine; there is no package-level mutable state.
type Clock struct {
	global atomic.Uint64
	local  []atomic.Uint64
}

// NewClock builds a clock for workers worker goroutines, starting at
// epoch 0.
func NewClock(workers int) *Clock {
	return &Clock{local: make([]atomic.Uint64, workers)}
}

// Global loads the current global epoch E.
func (c *Clock) Global() uint64 { return c.global.Load() }

// ObserveLocal records that worker has caught up to epoch e. Called once at
// the start of every transaction (Begin); single-writer per index, so a
// plain atomic store suffices.
func (c *Clock) ObserveLocal(worker int, e uint64) { c.local[worker].Store(e) }

// LocalOf returns the last epoch worker reported via ObserveLocal.
func (c *Clock) LocalOf(worker int) uint64 { return c.local[worker].Load() }

// Run advances the global epoch every period, but only once every worker's
// local epoch has caught up to the current global value; it returns when
// ctx is done. This is the epoch advancer's entire job — it does no
// transactional work of its own.
func (c *Clock) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.allCaughtUp() {
				c.global.Add(1)
			}
		}
	}
}

func (c *Clock) allCaughtUp() bool {
	g := c.global.Load()
	for i := range c.local {
		if c.local[i].Load() < g {
			return false
		}
	}
	return true
}
