package record

import "testing"

func TestRecordLoadStoreRoundTrip(t *testing.T) {
	initial := uint64(NewTIDWord(false, 0, 0))
	r := NewRecord(42, initial)

	if r.Key() != 42 {
		t.Fatalf("Key() = %d, want 42", r.Key())
	}
	if got := TIDWord(r.LoadAcquire()); got.Locked() {
		t.Fatal("new record should start unlocked")
	}

	next := uint64(NewTIDWord(false, 1, 1))
	r.StoreRelease(next)
	if r.LoadAcquire() != next {
		t.Fatal("StoreRelease did not publish the new word")
	}
}

func TestRecordTryLock(t *testing.T) {
	initial := uint64(NewTIDWord(false, 0, 0))
	r := NewRecord(1, initial)

	locked := uint64(TIDWord(initial).WithLock(true))
	if !r.TryLock(initial, locked) {
		t.Fatal("TryLock should succeed from the unlocked word")
	}
	if r.TryLock(initial, locked) {
		t.Fatal("TryLock should fail once the word has moved on")
	}
	if !TIDWord(r.LoadAcquire()).Locked() {
		t.Fatal("record should be locked after a successful TryLock")
	}
}

func TestRecordValueAndHistory(t *testing.T) {
	r := NewRecord(1, uint64(NewTSWord(false, 0, 0)))

	r.SetValue(99)
	if r.Value() != 99 {
		t.Fatalf("Value() = %d, want 99", r.Value())
	}

	old := uint64(NewTSWord(false, 5, 3))
	r.SetPreTS(old)
	if r.PreTS() != old {
		t.Fatal("SetPreTS/PreTS round trip failed")
	}
}
