package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/metrics"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runMetricsOut string
	runStats      bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runMetricsOut, "metrics-out", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&runStats, "stats", false, "Print allocator statistics per trace")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>...",
		Short: "Replay traces and report utilization and throughput",
		Long: `The run command replays each trace on a fresh heap, verifies that
every payload survives intact, and reports space utilization (peak live
payload over final heap size) and throughput.

Example:
  heapctl run traces/*.rep
  heapctl run --host mmap --metrics-out heap.prom traces/binary.rep
  heapctl run --json traces/realloc.rep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

// TraceReport is the per-trace output of run.
type TraceReport struct {
	Trace       string  `json:"trace"`
	Ops         int     `json:"ops"`
	PeakPayload int64   `json:"peak_payload"`
	HeapSize    int     `json:"heap_size"`
	Utilization float64 `json:"utilization"`
	Seconds     float64 `json:"seconds"`
	OpsPerSec   float64 `json:"ops_per_sec"`
}

// RunReport is the JSON output of run.
type RunReport struct {
	Traces         []TraceReport `json:"traces"`
	TotalOps       int           `json:"total_ops"`
	AvgUtilization float64       `json:"avg_utilization"`
	OpsPerSec      float64       `json:"ops_per_sec"`
}

func runRun(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var results []trace.Result
	sources := make(map[string]metrics.StatsSource)
	for _, path := range args {
		printVerbose("Replaying trace: %s\n", path)

		tr, err := trace.ParseFile(path)
		if err != nil {
			return err
		}
		a, release, err := newAllocator(cfg)
		if err != nil {
			return err
		}
		res, err := trace.Replay(tr, a, trace.Options{})
		if err == nil && runStats && !jsonOut && !quiet {
			a.PrintStats(os.Stdout)
		}
		if err == nil {
			sources[uniqueName(sources, tr.Name)] = metrics.Snapshot(res.Stats)
		}
		release()
		if err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}
		results = append(results, res)
	}

	if runMetricsOut != "" {
		if err := metrics.WriteTextfile(runMetricsOut, sources); err != nil {
			return err
		}
		printVerbose("Wrote metrics: %s\n", runMetricsOut)
	}

	sum := trace.Summarize(results)
	if jsonOut {
		report := RunReport{
			TotalOps:       sum.Ops,
			AvgUtilization: sum.AvgUtilization,
			OpsPerSec:      sum.Throughput,
		}
		for _, r := range results {
			report.Traces = append(report.Traces, TraceReport{
				Trace:       r.Name,
				Ops:         r.Ops,
				PeakPayload: r.PeakPayload,
				HeapSize:    r.HeapSize,
				Utilization: r.Utilization,
				Seconds:     r.Elapsed.Seconds(),
				OpsPerSec:   r.Throughput,
			})
		}
		return printJSON(report)
	}

	printInfo("%-24s %10s %12s %12s %8s %14s\n", "TRACE", "OPS", "PEAK", "HEAP", "UTIL", "OPS/SEC")
	for _, r := range results {
		printInfo("%-24s %10s %12s %12s %8s %14s\n",
			r.Name,
			formatNumber(int64(r.Ops)),
			formatBytes(r.PeakPayload),
			formatBytes(int64(r.HeapSize)),
			formatPercent(r.Utilization),
			formatNumber(int64(r.Throughput)),
		)
	}
	printInfo("\nTotal: %s ops in %s, avg utilization %s, %s ops/sec\n",
		formatNumber(int64(sum.Ops)),
		sum.Elapsed.Round(time.Microsecond),
		formatPercent(sum.AvgUtilization),
		formatNumber(int64(sum.Throughput)),
	)
	return nil
}

// uniqueName returns name, suffixed when it is already taken.
func uniqueName(taken map[string]metrics.StatsSource, name string) string {
	if _, ok := taken[name]; !ok {
		return name
	}
	for i := 2; ; i++ {
		n := fmt.Sprintf("%s#%d", name, i)
		if _, ok := taken[n]; !ok {
			return n
		}
	}
}
