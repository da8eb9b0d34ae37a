package workload

import (
	"math/rand"
	"testing"
)

func TestGeneratorUniformKeysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGenerator(10, 50, false, 0, rng)

	buf := make([]Operation, 1000)
	g.Fill(buf)

	for _, op := range buf {
		if op.Key >= 10 {
			t.Fatalf("key %d out of range [0, 10)", op.Key)
		}
	}
}

func TestGeneratorReadWriteRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGenerator(100, 30, false, 0, rng)

	buf := make([]Operation, 10000)
	g.Fill(buf)

	var reads int
	for _, op := range buf {
		if op.Kind == OpRead {
			reads++
		}
	}
	got := float64(reads) / float64(len(buf))
	if got < 0.25 || got > 0.35 {
		t.Fatalf("read ratio = %.3f, want close to 0.30", got)
	}
}

func TestGeneratorAllReadsOrAllWrites(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	allReads := NewGenerator(10, 100, false, 0, rng)
	buf := make([]Operation, 50)
	allReads.Fill(buf)
	for _, op := range buf {
		if op.Kind != OpRead {
			t.Fatal("rRatio=100 should produce only reads")
		}
	}

	allWrites := NewGenerator(10, 0, false, 0, rng)
	allWrites.Fill(buf)
	for _, op := range buf {
		if op.Kind != OpWrite {
			t.Fatal("rRatio=0 should produce only writes")
		}
	}
}

func TestGeneratorYCSBZeroSkewStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGenerator(20, 50, true, 0, rng)

	buf := make([]Operation, 500)
	g.Fill(buf)

	for _, op := range buf {
		if op.Key >= 20 {
			t.Fatalf("zipf key %d out of range [0, 20)", op.Key)
		}
	}
}

func TestGeneratorYCSBSkewedFavorsLowKeys(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGenerator(1000, 50, true, 0.99, rng)

	buf := make([]Operation, 5000)
	g.Fill(buf)

	var below10 int
	for _, op := range buf {
		if op.Key < 10 {
			below10++
		}
	}
	if float64(below10)/float64(len(buf)) < 0.5 {
		t.Fatalf("expected a highly skewed Zipf distribution to favor the lowest keys, got %.3f in [0,10)", float64(below10)/float64(len(buf)))
	}
}
