package record

import "sync/atomic"

// Record is a fixed-size key/value slot guarded by a single atomic control
// word. The control word is the sole synchronization point for the record:
// only a transaction that observes lock=0 and then CAS-sets lock=1 may
// mutate val or preTS, and value writes become visible no later than the
// release-store that clears the lock and publishes the new word.
//
// val is a plain field, not an atomic: readers copy it out optimistically
// and re-check the control word afterwards, so its synchronization comes
// entirely from the control word's acquire/release pair, not from the field
// access itself. preTS is an atomic word of its own, written only by the
// commit write phase while the record is locked.
type Record struct {
	key   uint64
	word  atomic.Uint64
	preTS atomic.Uint64 // TicToc history slot; unused under Silo
	val   uint64
}

// NewRecord builds a record for key with the given initial control word
// (already encoded via NewTIDWord or NewTSWord) and a zero value.
func NewRecord(key uint64, initial uint64) *Record {
	r := &Record{key: key}
	r.word.Store(initial)
	return r
}

func (r *Record) Key() uint64 { return r.key }

// LoadAcquire loads the control word.
func (r *Record) LoadAcquire() uint64 { return r.word.Load() }

// StoreRelease publishes a new control word.
func (r *Record) StoreRelease(w uint64) { r.word.Store(w) }

// CompareAndSwap attempts to move the control word from old to new,
// reporting whether it succeeded. Used both to acquire the lock bit
// (TryLock) and, under TicToc, to extend a record's rts without locking it.
func (r *Record) CompareAndSwap(old, new uint64) bool {
	return r.word.CompareAndSwap(old, new)
}

// TryLock is CompareAndSwap specialized to the locking case: it fails
// immediately (without spinning) when expected no longer matches, so the
// caller decides whether to spin or abort.
func (r *Record) TryLock(expected, desired uint64) bool {
	return r.word.CompareAndSwap(expected, desired)
}

// Value reads the record's payload.
func (r *Record) Value() uint64 { return r.val }

// SetValue writes the record's payload. Callers must hold the record's lock.
func (r *Record) SetValue(v uint64) { r.val = v }

// PreTS reads the TicToc single-slot timestamp history.
func (r *Record) PreTS() uint64 { return r.preTS.Load() }

// SetPreTS overwrites the TicToc single-slot timestamp history. Only the
// commit write phase should call this; an rts-extension CAS must not touch
// it (see TSWord.Extended).
func (r *Record) SetPreTS(v uint64) { r.preTS.Store(v) }
