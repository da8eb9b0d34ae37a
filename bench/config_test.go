package bench

import (
	"testing"
	"time"

	"github.com/starpos/ccbench/record"
)

func validSiloConfig() Config {
	return Config{
		TupleNum:   100,
		MaxOpe:     2,
		ThreadNum:  4,
		RRatio:     50,
		ZipfSkew:   0,
		YCSB:       false,
		ClockPerUS: 2.8,
		EpochTime:  40 * time.Millisecond,
		ExTime:     time.Second,
		Protocol:   record.ProtocolSilo,
	}
}

func TestValidateAcceptsWellFormedSiloConfig(t *testing.T) {
	if err := validSiloConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateAcceptsWellFormedTicTocConfig(t *testing.T) {
	cfg := validSiloConfig()
	cfg.Protocol = record.ProtocolTicToc
	cfg.ThreadNum = 1
	cfg.EpochTime = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsNonPositiveTupleNum(t *testing.T) {
	cfg := validSiloConfig()
	cfg.TupleNum = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for TUPLE_NUM=0")
	}
}

func TestValidateRejectsNonPositiveMaxOpe(t *testing.T) {
	cfg := validSiloConfig()
	cfg.MaxOpe = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for MAX_OPE=0")
	}
}

func TestValidateRejectsTooFewThreadsUnderSilo(t *testing.T) {
	cfg := validSiloConfig()
	cfg.ThreadNum = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error: silo needs >= 2 threads (advancer + worker)")
	}
}

func TestValidateRejectsZeroThreadsUnderTicToc(t *testing.T) {
	cfg := validSiloConfig()
	cfg.Protocol = record.ProtocolTicToc
	cfg.ThreadNum = 0
	cfg.EpochTime = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for THREAD_NUM=0 under tictoc")
	}
}

func TestValidateRejectsOutOfRangeRRatio(t *testing.T) {
	cfg := validSiloConfig()
	cfg.RRatio = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for RRATIO=-1")
	}
	cfg.RRatio = 101
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for RRATIO=101")
	}
}

func TestValidateRejectsOutOfRangeZipfSkew(t *testing.T) {
	cfg := validSiloConfig()
	cfg.ZipfSkew = -0.1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for negative ZIPF_SKEW")
	}
	cfg.ZipfSkew = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for ZIPF_SKEW=1")
	}
}

func TestValidateRejectsNonPositiveClockPerUS(t *testing.T) {
	cfg := validSiloConfig()
	cfg.ClockPerUS = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for CLOCK_PER_US=0")
	}
}

func TestValidateRejectsNonPositiveEpochTimeUnderSilo(t *testing.T) {
	cfg := validSiloConfig()
	cfg.EpochTime = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for EPOCH_TIME=0 under silo")
	}
}

func TestValidateRejectsNonPositiveExTime(t *testing.T) {
	cfg := validSiloConfig()
	cfg.ExTime = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for EXTIME=0")
	}
}

// MAX_OPE exceeding TUPLE_NUM is a normal hotspot-stress configuration
// (small key space, many operations per procedure, keys sampled
// independently and so repeating within a procedure by design) — it must
// not be rejected.
func TestValidateAcceptsMaxOpeExceedingTupleNum(t *testing.T) {
	cfg := validSiloConfig()
	cfg.TupleNum = 5
	cfg.MaxOpe = 50
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil (MAX_OPE > TUPLE_NUM is a valid hotspot config)", err)
	}
}

func TestWorkerCountSiloReservesAdvancer(t *testing.T) {
	cfg := validSiloConfig()
	cfg.ThreadNum = 5
	if got := cfg.WorkerCount(); got != 4 {
		t.Fatalf("WorkerCount() = %d, want 4", got)
	}
}

func TestWorkerCountTicTocUsesAllThreads(t *testing.T) {
	cfg := validSiloConfig()
	cfg.Protocol = record.ProtocolTicToc
	cfg.ThreadNum = 5
	if got := cfg.WorkerCount(); got != 5 {
		t.Fatalf("WorkerCount() = %d, want 5", got)
	}
}
