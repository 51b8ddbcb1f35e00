// Package metrics exports allocator statistics as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/heapkit/heap/alloc"
)

const (
	namespace = "heapkit"
	subsystem = "alloc"
)

// StatsSource is anything that can report allocator statistics.
// *alloc.Allocator satisfies it.
type StatsSource interface {
	Stats() alloc.Stats
}

// Snapshot is a fixed set of statistics, for exporting a heap that no longer
// exists.
type Snapshot alloc.Stats

// Stats implements StatsSource.
func (s Snapshot) Stats() alloc.Stats { return alloc.Stats(s) }

type metric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(s alloc.Stats) float64
}

// Collector is a prometheus.Collector reading a StatsSource on every scrape.
type Collector struct {
	src     StatsSource
	metrics []metric
}

// NewCollector builds a collector for src. labels become constant labels on
// every metric, e.g. {"heap": "trace1"}.
func NewCollector(src StatsSource, labels prometheus.Labels) *Collector {
	counter := func(name, help string, f func(alloc.Stats) float64) metric {
		return metric{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, nil, labels),
			kind:  prometheus.CounterValue,
			value: f,
		}
	}
	gauge := func(name, help string, f func(alloc.Stats) float64) metric {
		m := counter(name, help, f)
		m.kind = prometheus.GaugeValue
		return m
	}

	return &Collector{
		src: src,
		metrics: []metric{
			counter("alloc_calls_total", "Alloc calls with a non-zero size.",
				func(s alloc.Stats) float64 { return float64(s.AllocCalls) }),
			counter("alloc_fast_path_total", "Allocations served from the free lists.",
				func(s alloc.Stats) float64 { return float64(s.AllocFastPath) }),
			counter("alloc_slow_path_total", "Allocations that grew the heap.",
				func(s alloc.Stats) float64 { return float64(s.AllocSlowPath) }),
			counter("free_calls_total", "Free calls on non-nil pointers.",
				func(s alloc.Stats) float64 { return float64(s.FreeCalls) }),
			counter("realloc_calls_total", "Realloc calls that resized a block.",
				func(s alloc.Stats) float64 { return float64(s.ReallocCalls) }),
			counter("realloc_in_place_total", "Reallocations that grew in place.",
				func(s alloc.Stats) float64 { return float64(s.ReallocInPlace) }),
			counter("realloc_moved_total", "Reallocations that moved the payload.",
				func(s alloc.Stats) float64 { return float64(s.ReallocMoved) }),
			counter("grow_calls_total", "Heap extensions.",
				func(s alloc.Stats) float64 { return float64(s.GrowCalls) }),
			counter("grow_bytes_total", "Bytes added by heap extensions.",
				func(s alloc.Stats) float64 { return float64(s.GrowBytes) }),
			counter("splits_total", "Block splits, including pre-splits.",
				func(s alloc.Stats) float64 { return float64(s.SplitCount + s.PreSplitCount) }),
			counter("coalesce_total", "Merges with a free neighbor.",
				func(s alloc.Stats) float64 { return float64(s.CoalesceForward + s.CoalesceBackward) }),
			gauge("heap_bytes", "Current heap size.",
				func(s alloc.Stats) float64 { return float64(s.HeapSize) }),
			gauge("live_bytes", "Bytes in allocated blocks.",
				func(s alloc.Stats) float64 { return float64(s.LiveBytes) }),
			gauge("peak_live_bytes", "Highest live byte count seen.",
				func(s alloc.Stats) float64 { return float64(s.PeakLiveBytes) }),
			gauge("free_blocks", "Blocks on the free lists.",
				func(s alloc.Stats) float64 { return float64(s.FreeBlocks) }),
			gauge("free_bytes", "Bytes on the free lists.",
				func(s alloc.Stats) float64 { return float64(s.FreeBytes) }),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(s))
	}
}

// WriteTextfile registers one collector per named source on a fresh
// registry and writes the result in the node-exporter textfile format.
// Each source is labeled heap=<name>.
func WriteTextfile(path string, sources map[string]StatsSource) error {
	reg := prometheus.NewRegistry()
	for name, src := range sources {
		if err := reg.Register(NewCollector(src, prometheus.Labels{"heap": name})); err != nil {
			return fmt.Errorf("metrics: register %s: %w", name, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
