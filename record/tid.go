// Package record implements the per-record control word: the single atomic
// 64-bit slot that synchronizes a record's value and metadata under both the
// Silo and TicToc protocols.
package record

// Protocol selects which control-word encoding a table's records use. A
// table is built for exactly one protocol; the two encodings are never mixed
// within a run.
type Protocol int

const (
	ProtocolSilo Protocol = iota
	ProtocolTicToc
)

func (p Protocol) String() string {
	switch p {
	case ProtocolSilo:
		return "silo"
	case ProtocolTicToc:
		return "tictoc"
	default:
		return "unknown"
	}
}

// TIDWord is the Silo control-word encoding: 1 bit lock, 31 bits tid
// (monotone within an (epoch, record)), 32 bits epoch (the global epoch at
// the record's last commit). The word is never persisted or transmitted, so
// the bit layout only needs to be self-consistent within one process.
type TIDWord uint64

const (
	tidLockShift  = 63
	tidTIDShift   = 32
	tidEpochShift = 0

	tidTIDBits   = 31
	tidEpochBits = 32

	tidTIDMask   = uint64(1)<<tidTIDBits - 1
	tidEpochMask = uint64(1)<<tidEpochBits - 1
)

// NewTIDWord packs a (lock, tid, epoch) triple into a control word. tid and
// epoch are truncated to their field widths.
func NewTIDWord(locked bool, tid, epoch uint64) TIDWord {
	var w uint64
	if locked {
		w |= 1 << tidLockShift
	}
	w |= (tid & tidTIDMask) << tidTIDShift
	w |= (epoch & tidEpochMask) << tidEpochShift
	return TIDWord(w)
}

func (w TIDWord) Locked() bool { return uint64(w)>>tidLockShift&1 != 0 }

func (w TIDWord) TID() uint64 { return (uint64(w) >> tidTIDShift) & tidTIDMask }

func (w TIDWord) Epoch() uint64 { return (uint64(w) >> tidEpochShift) & tidEpochMask }

// WithLock returns a copy of w with only the lock bit changed.
func (w TIDWord) WithLock(locked bool) TIDWord {
	return NewTIDWord(locked, w.TID(), w.Epoch())
}

// SameVersion reports whether w and other carry the same (tid, epoch),
// ignoring the lock bit. Used to compare a read-set snapshot against the
// record's current word during validation.
func (w TIDWord) SameVersion(other TIDWord) bool {
	return w.TID() == other.TID() && w.Epoch() == other.Epoch()
}
