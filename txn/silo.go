package txn

import (
	"runtime"
	"sort"

	"github.com/starpos/ccbench/backoff"
	"github.com/starpos/ccbench/epoch"
	"github.com/starpos/ccbench/record"
	"github.com/starpos/ccbench/table"
)

// SiloExecutor implements the Silo protocol: validation locks the write set
// in key order, re-checks that every read's (tid, epoch) is unchanged (or
// changed only by this transaction's own lock), and stamps every write with
// one commit tid at the transaction's observed epoch.
type SiloExecutor struct {
	table    *table.Table
	clock    *epoch.Clock
	workerID int

	status   status
	readSet  []readEntry
	writeSet []writeEntry
	cll      []lockEntry

	lastCommitTID uint64
	commitTID     record.TIDWord

	bo *backoff.Backoff
}

// NewSiloExecutor builds an executor for workerID operating against tbl,
// observing and publishing its progress through clk.
func NewSiloExecutor(tbl *table.Table, clk *epoch.Clock, workerID int) *SiloExecutor {
	return &SiloExecutor{
		table:    tbl,
		clock:    clk,
		workerID: workerID,
		bo:       newBackoff(),
	}
}

func (x *SiloExecutor) Status() Status { return x.status.external() }

func (x *SiloExecutor) Begin() {
	x.status = statusInFlight
	x.readSet = x.readSet[:0]
	x.writeSet = x.writeSet[:0]
	x.cll = x.cll[:0]
	x.clock.ObserveLocal(x.workerID, x.clock.Global())
}

func (x *SiloExecutor) Read(key uint64) (uint64, error) {
	if we, ok := findByKey(x.writeSet, key, writeKey); ok {
		return we.value, nil
	}
	if re, ok := findByKey(x.readSet, key, readKey); ok {
		return re.value, nil
	}

	rec := x.table.Lookup(key)
	for {
		v1 := record.TIDWord(rec.LoadAcquire())
		for v1.Locked() {
			runtime.Gosched()
			v1 = record.TIDWord(rec.LoadAcquire())
		}

		val := rec.Value()

		v2 := record.TIDWord(rec.LoadAcquire())
		if v1 == v2 {
			x.readSet = append(x.readSet, readEntry{key: key, rec: rec, word: uint64(v1), value: val})
			return val, nil
		}
		// v2 changed under us (or got locked); retry the whole read.
	}
}

func (x *SiloExecutor) Write(key, value uint64) {
	if we, ok := findByKey(x.writeSet, key, writeKey); ok {
		we.value = value
		return
	}
	rec := x.table.Lookup(key)
	x.writeSet = append(x.writeSet, writeEntry{key: key, rec: rec, value: value})
}

func (x *SiloExecutor) Validate() bool {
	sort.Slice(x.writeSet, func(i, j int) bool { return x.writeSet[i].key < x.writeSet[j].key })

	var maxWriteTID uint64
	for i := range x.writeSet {
		we := &x.writeSet[i]
		for {
			expected := record.TIDWord(we.rec.LoadAcquire())
			if expected.Locked() {
				runtime.Gosched()
				continue
			}
			desired := expected.WithLock(true)
			if we.rec.TryLock(uint64(expected), uint64(desired)) {
				we.word = uint64(expected)
				if tid := expected.TID(); tid > maxWriteTID {
					maxWriteTID = tid
				}
				x.cll = append(x.cll, lockEntry{key: we.key, rec: we.rec})
				break
			}
		}
	}

	e := x.clock.Global()

	var maxReadTID uint64
	for _, re := range x.readSet {
		captured := record.TIDWord(re.word)
		if tid := captured.TID(); tid > maxReadTID {
			maxReadTID = tid
		}

		cur := record.TIDWord(re.rec.LoadAcquire())
		if !cur.SameVersion(captured) {
			x.unlockCLL()
			return false
		}
		if cur.Locked() && !x.holdsLock(re.rec) {
			x.unlockCLL()
			return false
		}
	}

	newTID := maxReadTID
	if maxWriteTID > newTID {
		newTID = maxWriteTID
	}
	if x.lastCommitTID+1 > newTID {
		newTID = x.lastCommitTID + 1
	}
	x.commitTID = record.NewTIDWord(false, newTID, e)
	return true
}

func (x *SiloExecutor) Commit() {
	for _, we := range x.writeSet {
		we.rec.SetValue(we.value)
		we.rec.StoreRelease(uint64(x.commitTID))
	}
	x.lastCommitTID = x.commitTID.TID()
	x.status = statusCommitted
	x.cll = x.cll[:0]
	x.readSet = x.readSet[:0]
	x.writeSet = x.writeSet[:0]
	x.bo.Reset()
}

func (x *SiloExecutor) Abort() {
	x.unlockCLL()
	x.readSet = x.readSet[:0]
	x.writeSet = x.writeSet[:0]
	x.status = statusAborted
	x.bo.Wait()
}

func (x *SiloExecutor) unlockCLL() {
	for _, l := range x.cll {
		cur := record.TIDWord(l.rec.LoadAcquire())
		l.rec.StoreRelease(uint64(cur.WithLock(false)))
	}
	x.cll = x.cll[:0]
}

func (x *SiloExecutor) holdsLock(rec *record.Record) bool {
	for _, l := range x.cll {
		if l.rec == rec {
			return true
		}
	}
	return false
}
