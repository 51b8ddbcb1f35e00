package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
)

func TestCollectorExportsStats(t *testing.T) {
	src := Snapshot{AllocCalls: 7, GrowBytes: 4096, HeapSize: 4128, SplitCount: 2, PreSplitCount: 1}
	c := NewCollector(src, nil)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		}
	}

	assert.Equal(t, 7.0, values["heapkit_alloc_alloc_calls_total"])
	assert.Equal(t, 4096.0, values["heapkit_alloc_grow_bytes_total"])
	assert.Equal(t, 4128.0, values["heapkit_alloc_heap_bytes"])
	assert.Equal(t, 3.0, values["heapkit_alloc_splits_total"])
}

func TestCollectorReadsLiveAllocator(t *testing.T) {
	a, err := alloc.NewInMemory(1<<16, nil)
	require.NoError(t, err)
	c := NewCollector(a, prometheus.Labels{"heap": "test"})

	before := testutil.CollectAndCount(c)
	assert.Equal(t, len(c.metrics), before)

	_, err = a.Alloc(100)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	n, err := testutil.GatherAndCount(reg, "heapkit_alloc_live_bytes")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWriteTextfile(t *testing.T) {
	a, err := alloc.NewInMemory(1<<16, nil)
	require.NoError(t, err)
	_, err = a.Alloc(64)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "heap.prom")
	require.NoError(t, WriteTextfile(path, map[string]StatsSource{"one": a}))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `heapkit_alloc_alloc_calls_total{heap="one"} 1`)
	assert.Contains(t, string(body), "# TYPE heapkit_alloc_heap_bytes gauge")
}
