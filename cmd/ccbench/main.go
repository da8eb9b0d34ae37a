// Command ccbench runs the Silo or TicToc in-memory concurrency-control
// benchmark described in SPEC_FULL.md §6.1.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starpos/ccbench/bench"
	"github.com/starpos/ccbench/metrics"
	"github.com/starpos/ccbench/record"
)

var (
	protocolFlag   string
	metricsAddr    string
	verboseLogging bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ccbench TUPLE_NUM MAX_OPE THREAD_NUM RRATIO ZIPF_SKEW YCSB CLOCK_PER_US EPOCH_TIME EXTIME",
		Short: "in-memory optimistic concurrency control benchmark (Silo / TicToc)",
		Long: `ccbench runs a fixed-cardinality in-memory table through a pool of
worker transactions under either the Silo or the TicToc serializable
optimistic concurrency control protocol, and reports committed
transactions per second.`,
		Args:          cobra.ExactArgs(9),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBench,
	}
	cmd.Flags().StringVar(&protocolFlag, "protocol", "silo", `concurrency control protocol: "silo" or "tictoc"`)
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus /metrics on this address for the run's duration")
	cmd.Flags().BoolVar(&verboseLogging, "verbose", false, "use a development (human-readable, debug-level) logger instead of the production JSON logger")
	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(verboseLogging)
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := parseConfig(args, protocolFlag)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID), zap.String("protocol", cfg.Protocol.String()))

	reg := metrics.New()
	if metricsAddr != "" {
		srv := startMetricsServer(metricsAddr, reg, logger)
		defer srv.Close() //nolint:errcheck
	}

	logger.Info("starting run",
		zap.Int("tuple_num", cfg.TupleNum),
		zap.Int("max_ope", cfg.MaxOpe),
		zap.Int("thread_num", cfg.ThreadNum),
		zap.Int("rratio", cfg.RRatio),
		zap.Float64("zipf_skew", cfg.ZipfSkew),
		zap.Bool("ycsb", cfg.YCSB),
		zap.Duration("epoch_time", cfg.EpochTime),
		zap.Duration("extime", cfg.ExTime),
	)

	start := time.Now()
	result, err := bench.Run(context.Background(), cfg, logger, reg)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("benchmark run failed", zap.Error(err))
		return err
	}

	tps := result.TPS(elapsed.Seconds())
	logger.Info("benchmark finished",
		zap.Uint64("commits", result.Commits),
		zap.Uint64("aborts", result.Aborts),
		zap.Float64("tps", tps),
	)

	fmt.Println(tps)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func startMetricsServer(addr string, reg *metrics.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}

func parseConfig(args []string, protocol string) (bench.Config, error) {
	tupleNum, err := strconv.Atoi(args[0])
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "TUPLE_NUM is not an integer")
	}
	maxOpe, err := strconv.Atoi(args[1])
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "MAX_OPE is not an integer")
	}
	threadNum, err := strconv.Atoi(args[2])
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "THREAD_NUM is not an integer")
	}
	rRatio, err := strconv.Atoi(args[3])
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "RRATIO is not an integer")
	}
	zipfSkew, err := strconv.ParseFloat(args[4], 64)
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "ZIPF_SKEW is not a number")
	}

	var ycsb bool
	switch args[5] {
	case "ON":
		ycsb = true
	case "OFF":
		ycsb = false
	default:
		return bench.Config{}, errors.Errorf(`YCSB must be "ON" or "OFF", got %q`, args[5])
	}

	clockPerUS, err := strconv.ParseFloat(args[6], 64)
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "CLOCK_PER_US is not a number")
	}
	epochTimeMS, err := strconv.Atoi(args[7])
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "EPOCH_TIME is not an integer")
	}
	exTimeS, err := strconv.Atoi(args[8])
	if err != nil {
		return bench.Config{}, errors.Wrap(err, "EXTIME is not an integer")
	}

	var proto record.Protocol
	switch protocol {
	case "silo":
		proto = record.ProtocolSilo
	case "tictoc":
		proto = record.ProtocolTicToc
	default:
		return bench.Config{}, errors.Errorf(`--protocol must be "silo" or "tictoc", got %q`, protocol)
	}

	cfg := bench.Config{
		TupleNum:   tupleNum,
		MaxOpe:     maxOpe,
		ThreadNum:  threadNum,
		RRatio:     rRatio,
		ZipfSkew:   zipfSkew,
		YCSB:       ycsb,
		ClockPerUS: clockPerUS,
		EpochTime:  time.Duration(epochTimeMS) * time.Millisecond,
		ExTime:     time.Duration(exTimeS) * time.Second,
		Protocol:   proto,
	}
	if err := cfg.Validate(); err != nil {
		return bench.Config{}, err
	}
	return cfg, nil
}
