package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starpos/ccbench/record"
)

func TestRunSiloCommitsTransactions(t *testing.T) {
	cfg := Config{
		TupleNum:   50,
		MaxOpe:     2,
		ThreadNum:  3,
		RRatio:     50,
		ZipfSkew:   0,
		YCSB:       false,
		ClockPerUS: 2.8,
		EpochTime:  2 * time.Millisecond,
		ExTime:     30 * time.Millisecond,
		Protocol:   record.ProtocolSilo,
	}

	res, err := Run(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Commits == 0 {
		t.Fatal("expected at least one committed transaction")
	}
}

func TestRunTicTocCommitsTransactions(t *testing.T) {
	cfg := Config{
		TupleNum:   50,
		MaxOpe:     2,
		ThreadNum:  2,
		RRatio:     50,
		ZipfSkew:   0,
		YCSB:       false,
		ClockPerUS: 2.8,
		EpochTime:  0,
		ExTime:     30 * time.Millisecond,
		Protocol:   record.ProtocolTicToc,
	}

	res, err := Run(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Commits == 0 {
		t.Fatal("expected at least one committed transaction")
	}
}

func TestRunReturnsConfigErrorWithoutStarting(t *testing.T) {
	cfg := Config{} // zero value fails Validate on TupleNum
	_, err := Run(context.Background(), cfg, nil, nil)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Run() error = %v, want *ConfigError", err)
	}
}
