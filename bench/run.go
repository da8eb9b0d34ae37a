package bench

import (
	"context"
	"math/rand"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/starpos/ccbench/epoch"
	"github.com/starpos/ccbench/internal/affinity"
	"github.com/starpos/ccbench/metrics"
	"github.com/starpos/ccbench/record"
	"github.com/starpos/ccbench/table"
	"github.com/starpos/ccbench/txn"
	"github.com/starpos/ccbench/workload"
)

// Run builds the table, starts the epoch advancer (Silo only), spawns one
// goroutine per worker, and blocks until cfg.ExTime has elapsed or ctx is
// canceled. reg and logger may be nil; every call site that uses them
// checks first.
func Run(ctx context.Context, cfg Config, logger *zap.Logger, reg *metrics.Registry) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	tbl, err := table.New(cfg.TupleNum, cfg.Protocol)
	if err != nil {
		return Result{}, newAllocationError(err)
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.ExTime)
	defer cancel()

	workerCount := cfg.WorkerCount()

	var clk *epoch.Clock
	if cfg.Protocol == record.ProtocolSilo {
		clk = epoch.NewClock(workerCount)
		go func() {
			if err := affinity.Pin(0); err != nil && logger != nil {
				logger.Debug("epoch advancer affinity pin failed", zap.Error(err))
			}
			clk.Run(runCtx, cfg.EpochTime)
		}()
	}

	results := make([]WorkerResult, workerCount)
	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()
			results[id] = runWorker(runCtx, id, cfg, tbl, clk, logger, reg)
		}(i)
	}
	wg.Wait()

	return aggregate(results), nil
}

func runWorker(ctx context.Context, id int, cfg Config, tbl *table.Table, clk *epoch.Clock, logger *zap.Logger, reg *metrics.Registry) WorkerResult {
	if err := affinity.Pin(id + 1); err != nil && logger != nil {
		logger.Debug("worker affinity pin failed", zap.Int("worker", id), zap.Error(err))
	}

	rng := rand.New(rand.NewSource(int64(id)*2654435761 + 1))
	gen := workload.NewGenerator(cfg.TupleNum, cfg.RRatio, cfg.YCSB, cfg.ZipfSkew, rng)
	proc := make([]workload.Operation, cfg.MaxOpe)

	var exec txn.Executor
	if cfg.Protocol == record.ProtocolSilo {
		exec = txn.NewSiloExecutor(tbl, clk, id)
	} else {
		exec = txn.NewTicTocExecutor(tbl)
	}

	workerLabel := strconv.Itoa(id)
	var res WorkerResult

	for {
		select {
		case <-ctx.Done():
			return res
		default:
		}

		gen.Fill(proc)

		if !runProcedure(ctx, exec, proc, &res, reg, workerLabel) {
			return res
		}
	}
}

// runProcedure drives one transaction to completion (commit, or abort and
// retry from scratch) and reports whether the worker should keep going.
func runProcedure(ctx context.Context, exec txn.Executor, proc []workload.Operation, res *WorkerResult, reg *metrics.Registry, workerLabel string) bool {
	for {
		exec.Begin()

		aborted := false
		for _, op := range proc {
			switch op.Kind {
			case workload.OpRead:
				if _, err := exec.Read(op.Key); err != nil {
					aborted = true
				}
			case workload.OpWrite:
				exec.Write(op.Key, op.Value)
			}
			if aborted {
				break
			}
		}

		if !aborted {
			aborted = !exec.Validate()
		}

		if aborted {
			exec.Abort()
			res.Aborts++
			if reg != nil {
				reg.Aborts.WithLabelValues(workerLabel).Inc()
			}
			select {
			case <-ctx.Done():
				return false
			default:
				continue
			}
		}

		exec.Commit()
		res.Commits++
		if reg != nil {
			reg.Commits.WithLabelValues(workerLabel).Inc()
		}
		return true
	}
}
