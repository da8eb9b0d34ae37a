// Package txn implements the per-worker transaction executors for both
// protocols. Each executor owns a thread-local read set, write set, and
// current-lock-list (cll); none of this state is ever shared across
// goroutines, so no locking protects the executor itself — only the
// records it touches.
package txn

import (
	"errors"

	"github.com/starpos/ccbench/backoff"
	"github.com/starpos/ccbench/record"
)

// ErrAborted is returned by Read when the transaction can no longer be
// serialized (the TicToc preemptive abort). The other abort causes, an
// invalidated read or lock contention the executor won't wait out, are
// reported by Validate returning false. It is a sentinel, not wrapped, so
// the abort path stays allocation-free.
var ErrAborted = errors.New("ccbench/txn: transaction aborted")

type status int

const (
	statusInFlight status = iota
	statusAborted
	statusCommitted
)

// Executor is the common shape both protocols implement: reset, apply
// operations to local sets, validate, and either commit or abort.
type Executor interface {
	// Begin resets all transient per-transaction state.
	Begin()
	// Read returns the current value for key, consulting the local write
	// set and read set before the table. It returns ErrAborted if the
	// transaction can no longer be serialized (TicToc preemptive abort).
	Read(key uint64) (uint64, error)
	// Write stages a value for key; it never touches the table directly.
	Write(key, value uint64)
	// Validate locks the write set in key order and checks every
	// invariant the protocol requires for a commit. It returns false
	// (after releasing any locks it took) if the transaction cannot
	// commit.
	Validate() bool
	// Commit publishes every staged write. Precondition: the prior
	// Validate call returned true.
	Commit()
	// Abort releases any locks in cll, clears the local sets, and backs
	// off before the caller retries.
	Abort()
	// Status reports the executor's current transaction status.
	Status() Status
}

// Status mirrors a transaction's lifecycle stage to callers outside the
// package (tests, diagnostics) without exposing the unexported status type.
type Status int

const (
	StatusInFlight Status = iota
	StatusAborted
	StatusCommitted
)

func (s status) external() Status { return Status(s) }

// readEntry is one element of a transaction's read set: the record touched,
// the control word captured at read time, and the value read under it.
type readEntry struct {
	key   uint64
	rec   *record.Record
	word  uint64
	value uint64
}

// writeEntry is one element of a transaction's write set: the record
// touched, the control word observed before this transaction's lock (filled
// in during Validate's lock phase), and the staged value.
//
// Carrying value per-entry (rather than a single write_val_ shared by the
// whole worker) resolves the "fixed write value" open question in favor of
// genuine per-operation values — see SPEC_FULL.md §9.
type writeEntry struct {
	key   uint64
	rec   *record.Record
	word  uint64
	value uint64
}

// lockEntry is one element of a transaction's current lock list: a record
// this transaction holds locked right now, pending commit or abort.
type lockEntry struct {
	key uint64
	rec *record.Record
}

func findByKey[T any](entries []T, key uint64, keyOf func(*T) uint64) (*T, bool) {
	for i := range entries {
		if keyOf(&entries[i]) == key {
			return &entries[i], true
		}
	}
	return nil, false
}

func readKey(e *readEntry) uint64   { return e.key }
func writeKey(e *writeEntry) uint64 { return e.key }

// newBackoff is a package-level indirection point purely so tests can swap
// in a deterministic back-off; production code always gets a real
// exponential schedule.
var newBackoff = backoff.New
