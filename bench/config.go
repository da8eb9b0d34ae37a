package bench

import (
	"time"

	"github.com/starpos/ccbench/record"
)

// Config is the parsed, validated form of the CLI's nine positional
// arguments plus the protocol selection. See SPEC_FULL.md §6.1 for the
// external CLI shape this is built from.
type Config struct {
	TupleNum   int           // TUPLE_NUM
	MaxOpe     int           // MAX_OPE
	ThreadNum  int           // THREAD_NUM
	RRatio     int           // RRATIO, percent reads [0, 100]
	ZipfSkew   float64       // ZIPF_SKEW, [0, 1)
	YCSB       bool          // YCSB: true selects Zipfian, false uniform
	ClockPerUS float64       // CLOCK_PER_US, recorded for compatibility only
	EpochTime  time.Duration // EPOCH_TIME, as a duration (Silo only)
	ExTime     time.Duration // EXTIME, as a duration

	Protocol record.Protocol
}

// Validate checks every field against the ranges SPEC_FULL.md §6.1 names,
// returning a *ConfigError describing the first violation found.
func (c Config) Validate() error {
	if c.TupleNum <= 0 {
		return newConfigError("TUPLE_NUM must be positive, got %d", c.TupleNum)
	}
	if c.MaxOpe <= 0 {
		return newConfigError("MAX_OPE must be positive, got %d", c.MaxOpe)
	}
	if c.Protocol == record.ProtocolSilo && c.ThreadNum < 2 {
		return newConfigError("THREAD_NUM must be >= 2 under silo (1 epoch advancer + >= 1 worker), got %d", c.ThreadNum)
	}
	if c.Protocol == record.ProtocolTicToc && c.ThreadNum < 1 {
		return newConfigError("THREAD_NUM must be >= 1 under tictoc, got %d", c.ThreadNum)
	}
	if c.RRatio < 0 || c.RRatio > 100 {
		return newConfigError("RRATIO must be in [0, 100], got %d", c.RRatio)
	}
	if c.ZipfSkew < 0 || c.ZipfSkew >= 1 {
		return newConfigError("ZIPF_SKEW must be in [0, 1), got %v", c.ZipfSkew)
	}
	if c.ClockPerUS <= 0 {
		return newConfigError("CLOCK_PER_US must be positive, got %v", c.ClockPerUS)
	}
	if c.Protocol == record.ProtocolSilo && c.EpochTime <= 0 {
		return newConfigError("EPOCH_TIME must be positive under silo, got %v", c.EpochTime)
	}
	if c.ExTime <= 0 {
		return newConfigError("EXTIME must be positive, got %v", c.ExTime)
	}
	return nil
}

// WorkerCount is the number of transactional workers: ThreadNum minus one
// dedicated epoch advancer under Silo, or ThreadNum under TicToc.
func (c Config) WorkerCount() int {
	if c.Protocol == record.ProtocolSilo {
		return c.ThreadNum - 1
	}
	return c.ThreadNum
}
