package workload

import "math/rand"

// Generator fills a procedure buffer for one transaction at a time. It is
// not safe for concurrent use; each worker owns its own Generator and its
// own *rand.Rand.
type Generator struct {
	tupleNum int
	rRatio   int
	ycsb     bool
	rng      *rand.Rand
	zipf     *rand.Zipf
}

// NewGenerator builds a generator over the dense key space [0, tupleNum),
// producing rRatio% reads (0..100) and, when ycsb is true, sampling keys
// from a Zipfian distribution of the given skew in [0, 1) instead of
// uniformly.
//
// math/rand.Zipf implements the same rejection-sampling Zipfian the
// source's FastZipf approximates, parameterized by an exponent s > 1; the
// [0,1) skew this CLI historically accepts is mapped onto that exponent as
// s = 1 + skew + 0.001 (see DESIGN.md — no ecosystem library improves on the
// standard library's own Zipfian sampler here).
func NewGenerator(tupleNum, rRatio int, ycsb bool, skew float64, rng *rand.Rand) *Generator {
	g := &Generator{tupleNum: tupleNum, rRatio: rRatio, ycsb: ycsb, rng: rng}
	if ycsb {
		// rand.NewZipf requires s > 1 strictly; skew=0 must still mean
		// "nearly uniform", not a panic, so nudge the exponent just past 1.
		s := 1.0 + skew + 1e-3
		g.zipf = rand.NewZipf(rng, s, 1, uint64(tupleNum-1))
	}
	return g
}

// Fill populates buf with len(buf) fresh operations.
func (g *Generator) Fill(buf []Operation) {
	for i := range buf {
		buf[i] = Operation{
			Kind:  g.nextKind(),
			Key:   g.nextKey(),
			Value: g.rng.Uint64(),
		}
	}
}

func (g *Generator) nextKind() OpKind {
	if g.rng.Intn(100) < g.rRatio {
		return OpRead
	}
	return OpWrite
}

func (g *Generator) nextKey() uint64 {
	if g.ycsb {
		return g.zipf.Uint64()
	}
	return uint64(g.rng.Int63n(int64(g.tupleNum)))
}
