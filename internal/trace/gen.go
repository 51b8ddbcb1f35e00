package trace

import (
	"fmt"
	"math/rand"
)

// GenConfig controls Generate.
type GenConfig struct {
	Ops     int   // operations before the closing frees
	IDs     int   // distinct ids
	Seed    int64 // same seed, same trace
	MaxSize int   // largest request in bytes
	Weight  int
}

// DefaultGenConfig is a small mixed workload.
var DefaultGenConfig = GenConfig{
	Ops:     1000,
	IDs:     200,
	Seed:    1,
	MaxSize: 4096,
	Weight:  1,
}

// Generate builds a random trace. Every id that is live after cfg.Ops
// operations is freed at the end, so a replay returns the heap to a single
// free block.
func Generate(cfg GenConfig) (*Trace, error) {
	if cfg.Ops < 0 || cfg.IDs <= 0 || cfg.MaxSize <= 0 {
		return nil, fmt.Errorf("trace: bad generator config: ops=%d ids=%d max-size=%d",
			cfg.Ops, cfg.IDs, cfg.MaxSize)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	live := make([]int, 0, cfg.IDs) // live ids
	idle := make([]int, cfg.IDs)    // ids free for allocation
	for i := range idle {
		idle[i] = cfg.IDs - 1 - i
	}
	sizes := make([]int, cfg.IDs)

	size := func() int {
		// Skew towards small requests.
		if rng.Intn(4) == 0 {
			return 1 + rng.Intn(cfg.MaxSize)
		}
		return 1 + rng.Intn(min(cfg.MaxSize, 128))
	}

	t := &Trace{NumIDs: cfg.IDs, Weight: cfg.Weight}
	var cur, peak int
	for range cfg.Ops {
		r := rng.Intn(10)
		switch {
		case len(live) == 0 || (r < 5 && len(idle) > 0):
			id := idle[len(idle)-1]
			idle = idle[:len(idle)-1]
			n := size()
			t.Ops = append(t.Ops, Op{Kind: OpAlloc, ID: id, Size: n})
			live = append(live, id)
			sizes[id] = n
			cur += n

		case r < 7:
			id := live[rng.Intn(len(live))]
			n := size()
			t.Ops = append(t.Ops, Op{Kind: OpRealloc, ID: id, Size: n})
			cur += n - sizes[id]
			sizes[id] = n

		default:
			j := rng.Intn(len(live))
			id := live[j]
			t.Ops = append(t.Ops, Op{Kind: OpFree, ID: id})
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			idle = append(idle, id)
			cur -= sizes[id]
		}
		peak = max(peak, cur)
	}

	for _, id := range live {
		t.Ops = append(t.Ops, Op{Kind: OpFree, ID: id})
	}
	t.SuggestedHeapSize = peak
	return t, nil
}
