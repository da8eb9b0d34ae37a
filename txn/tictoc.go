package txn

import (
	"runtime"
	"sort"

	"github.com/starpos/ccbench/backoff"
	"github.com/starpos/ccbench/record"
	"github.com/starpos/ccbench/table"
)

// TicTocExecutor implements the TicToc protocol: validation computes a
// single commit timestamp from the write locks taken and the read set's
// write timestamps, then either confirms each read is still serializable
// at that timestamp (extending a record's rts via CAS where needed) or
// fails without having waited on anyone else's lock, unless this
// transaction is write-only.
type TicTocExecutor struct {
	table *table.Table

	status   status
	readSet  []readEntry
	writeSet []writeEntry
	cll      []lockEntry

	approCommitTS uint64
	commitTS      uint64

	bo *backoff.Backoff
}

// NewTicTocExecutor builds an executor operating against tbl.
func NewTicTocExecutor(tbl *table.Table) *TicTocExecutor {
	return &TicTocExecutor{table: tbl, bo: newBackoff()}
}

func (x *TicTocExecutor) Status() Status { return x.status.external() }

func (x *TicTocExecutor) Begin() {
	x.status = statusInFlight
	x.readSet = x.readSet[:0]
	x.writeSet = x.writeSet[:0]
	x.cll = x.cll[:0]
	x.approCommitTS = 0
	x.commitTS = 0
}

func (x *TicTocExecutor) Read(key uint64) (uint64, error) {
	if we, ok := findByKey(x.writeSet, key, writeKey); ok {
		return we.value, nil
	}
	if re, ok := findByKey(x.readSet, key, readKey); ok {
		return re.value, nil
	}

	rec := x.table.Lookup(key)
	v1 := record.TSWord(rec.LoadAcquire())
	var val uint64
	for {
		if v1.Locked() {
			if v1.RTS() < x.approCommitTS {
				// This record will serialize after this transaction's
				// tentative commit point no matter what; waiting cannot
				// help, so abort immediately instead of spinning.
				x.status = statusAborted
				return 0, ErrAborted
			}
			v1 = record.TSWord(rec.LoadAcquire())
			continue
		}

		val = rec.Value()

		v2 := record.TSWord(rec.LoadAcquire())
		if v1 == v2 {
			break
		}
		v1 = v2
	}

	if wts := v1.WTS(); wts > x.approCommitTS {
		x.approCommitTS = wts
	}
	x.readSet = append(x.readSet, readEntry{key: key, rec: rec, word: uint64(v1), value: val})
	return val, nil
}

func (x *TicTocExecutor) Write(key, value uint64) {
	if we, ok := findByKey(x.writeSet, key, writeKey); ok {
		we.value = value
		return
	}

	var rec *record.Record
	if re, ok := findByKey(x.readSet, key, readKey); ok {
		rec = re.rec
	} else {
		rec = x.table.Lookup(key)
	}

	w := record.TSWord(rec.LoadAcquire())
	if floor := w.RTS() + 1; floor > x.approCommitTS {
		x.approCommitTS = floor
	}
	x.writeSet = append(x.writeSet, writeEntry{key: key, rec: rec, word: uint64(w), value: value})
}

func (x *TicTocExecutor) Validate() bool {
	writeOnly := len(x.readSet) == 0 && len(x.writeSet) > 0

	sort.Slice(x.writeSet, func(i, j int) bool { return x.writeSet[i].key < x.writeSet[j].key })

	// Phase 1: lock the write set, no-wait unless this transaction never read.
	for i := range x.writeSet {
		we := &x.writeSet[i]
		expected := record.TSWord(we.rec.LoadAcquire())
		for {
			if expected.Locked() {
				if !writeOnly {
					x.status = statusAborted
					x.unlockCLL()
					return false
				}
				runtime.Gosched()
				expected = record.TSWord(we.rec.LoadAcquire())
				continue
			}
			desired := expected.WithLock(true)
			if we.rec.TryLock(uint64(expected), uint64(desired)) {
				we.word = uint64(expected)
				x.cll = append(x.cll, lockEntry{key: we.key, rec: we.rec})
				if floor := desired.RTS() + 1; floor > x.commitTS {
					x.commitTS = floor
				}
				break
			}
			expected = record.TSWord(we.rec.LoadAcquire())
		}
	}

	// Phase 2: fold the read set's write timestamps into commit_ts.
	for _, re := range x.readSet {
		if wts := record.TSWord(re.word).WTS(); wts > x.commitTS {
			x.commitTS = wts
		}
	}

	// Phase 3: validate every read against commit_ts, extending rts where needed.
	for _, re := range x.readSet {
		if !x.validateRead(re) {
			x.unlockCLL()
			return false
		}
	}

	return true
}

func (x *TicTocExecutor) validateRead(re readEntry) bool {
	captured := record.TSWord(re.word)
	for {
		cur := record.TSWord(re.rec.LoadAcquire())

		if cur.WTS() != captured.WTS() {
			// The record was overwritten since this read. It can still be
			// serializable against the *prior* version if commit_ts falls
			// inside that version's lifetime.
			pre := record.TSWord(re.rec.PreTS())
			return pre.WTS() <= x.commitTS && x.commitTS < cur.WTS()
		}

		if captured.RTS() >= x.commitTS {
			return true
		}

		if cur.Locked() && !x.holdsLock(re.rec) {
			return false
		}
		if x.holdsLock(re.rec) {
			// This transaction already holds the lock; its own commit
			// write phase will set the final wts, which is >= commit_ts.
			return true
		}

		extended := cur.Extended(x.commitTS)
		if re.rec.CompareAndSwap(uint64(cur), uint64(extended)) {
			return true
		}
		// Lost the CAS race; reload and retry this read's validation.
	}
}

func (x *TicTocExecutor) Commit() {
	final := record.NewTSWord(false, x.commitTS, 0)
	for _, we := range x.writeSet {
		we.rec.SetValue(we.value)
		we.rec.SetPreTS(we.word)
		we.rec.StoreRelease(uint64(final))
	}
	x.status = statusCommitted
	x.cll = x.cll[:0]
	x.readSet = x.readSet[:0]
	x.writeSet = x.writeSet[:0]
	x.bo.Reset()
}

func (x *TicTocExecutor) Abort() {
	x.unlockCLL()
	x.readSet = x.readSet[:0]
	x.writeSet = x.writeSet[:0]
	x.status = statusAborted
	x.bo.Wait()
}

func (x *TicTocExecutor) unlockCLL() {
	for _, l := range x.cll {
		cur := record.TSWord(l.rec.LoadAcquire())
		l.rec.StoreRelease(uint64(cur.WithLock(false)))
	}
	x.cll = x.cll[:0]
}

func (x *TicTocExecutor) holdsLock(rec *record.Record) bool {
	for _, l := range x.cll {
		if l.rec == rec {
			return true
		}
	}
	return false
}
