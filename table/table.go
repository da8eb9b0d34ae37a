// Package table implements the core's only allowed view of the key space: a
// dense array from an integer key in [0, N) to a record handle. Workload
// generation and any richer indexing structure are collaborators outside
// this package's concern; Table exposes only Lookup, Size and Protocol.
package table

import (
	"github.com/pkg/errors"

	"github.com/starpos/ccbench/record"
)

// Table is a fixed-cardinality, fixed-key-width record store built once at
// startup and never resized or compacted during a run.
type Table struct {
	records  []record.Record
	protocol record.Protocol
}

// New allocates a table of size records, each initialized to the zero
// version of protocol's control word: unlocked, tid/wts/delta all zero.
func New(size int, protocol record.Protocol) (*Table, error) {
	if size <= 0 {
		return nil, errors.Errorf("table size must be positive, got %d", size)
	}

	var initial uint64
	switch protocol {
	case record.ProtocolSilo:
		initial = uint64(record.NewTIDWord(false, 0, 0))
	case record.ProtocolTicToc:
		initial = uint64(record.NewTSWord(false, 0, 0))
	default:
		return nil, errors.Errorf("unknown protocol %d", protocol)
	}

	records := make([]record.Record, size)
	for i := range records {
		records[i] = *record.NewRecord(uint64(i), initial)
	}

	return &Table{records: records, protocol: protocol}, nil
}

// Lookup returns the record handle for key. The caller is responsible for
// keeping key within [0, Size()); Table performs no bounds-checked error
// path because the key space is dense and fixed, matching the non-goal of
// secondary indexes over non-integer keys.
func (t *Table) Lookup(key uint64) *record.Record {
	return &t.records[key]
}

// Size returns the number of records in the table.
func (t *Table) Size() int { return len(t.records) }

// Protocol returns the control-word encoding this table was built for.
func (t *Table) Protocol() record.Protocol { return t.protocol }
