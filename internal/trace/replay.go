package trace

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Options controls Replay.
type Options struct {
	// Validate runs the heap validator after every operation.
	Validate bool
}

// Result summarizes one replay.
type Result struct {
	Name string
	Ops  int

	PeakPayload int64 // highest total of live request sizes
	HeapSize    int   // arena size after the replay

	// Utilization is PeakPayload / HeapSize.
	Utilization float64

	Elapsed time.Duration
	// Throughput is operations per second.
	Throughput float64

	Stats alloc.Stats
}

type liveBlock struct {
	ptr  alloc.Ptr
	size int
	sum  uint64
}

type replayer struct {
	a    *alloc.Allocator
	live map[int]liveBlock
}

// Replay runs t against a, which should be freshly initialized. Each payload
// is filled with a pattern derived from its id and checked with an xxhash
// fingerprint before it is freed or reallocated. Errors wrap ErrBadOp,
// ErrCorrupted, or the allocator's own error, and name the failing op.
func Replay(t *Trace, a *alloc.Allocator, opts Options) (Result, error) {
	r := &replayer{a: a, live: make(map[int]liveBlock, t.NumIDs)}
	res := Result{Name: t.Name, Ops: len(t.Ops)}

	var cur int64
	start := time.Now()
	for i, op := range t.Ops {
		delta, err := r.apply(op)
		if err != nil {
			return res, fmt.Errorf("%s: op %d (%s): %w", t.Name, i, op, err)
		}
		cur += delta
		res.PeakPayload = max(res.PeakPayload, cur)

		if opts.Validate {
			if err := a.Check(); err != nil {
				return res, fmt.Errorf("%s: op %d (%s): %w: %w", t.Name, i, op, ErrCorrupted, err)
			}
		}
	}
	res.Elapsed = time.Since(start)

	res.HeapSize = a.HeapSize()
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakPayload) / float64(res.HeapSize)
	}
	if secs := res.Elapsed.Seconds(); secs > 0 {
		res.Throughput = float64(res.Ops) / secs
	}
	res.Stats = a.Stats()
	return res, nil
}

// apply runs one op and returns the change in live payload bytes.
func (r *replayer) apply(op Op) (int64, error) {
	switch op.Kind {
	case OpAlloc:
		if _, ok := r.live[op.ID]; ok {
			return 0, fmt.Errorf("%w: id %d is already allocated", ErrBadOp, op.ID)
		}
		p, err := r.a.Alloc(op.Size)
		if err != nil {
			return 0, err
		}
		if err := r.checkPlacement(op.ID, p, op.Size); err != nil {
			return 0, err
		}
		r.live[op.ID] = r.stamp(op.ID, p, 0, op.Size)
		return int64(op.Size), nil

	case OpRealloc:
		old, ok := r.live[op.ID]
		if ok {
			if err := r.verify(op.ID, old); err != nil {
				return 0, err
			}
		}
		p, err := r.a.Realloc(old.ptr, op.Size)
		if err != nil {
			return 0, err
		}
		if op.Size == 0 {
			delete(r.live, op.ID)
			return -int64(old.size), nil
		}

		kept := min(old.size, op.Size)
		if got, want := xxhash.Sum64(r.a.Payload(p)[:kept]), patternSum(op.ID, kept); got != want {
			return 0, fmt.Errorf("%w: id %d lost its first %d bytes in realloc", ErrCorrupted, op.ID, kept)
		}
		delete(r.live, op.ID)
		if err := r.checkPlacement(op.ID, p, op.Size); err != nil {
			return 0, err
		}
		r.live[op.ID] = r.stamp(op.ID, p, kept, op.Size)
		return int64(op.Size - old.size), nil

	case OpFree:
		b, ok := r.live[op.ID]
		if !ok {
			return 0, fmt.Errorf("%w: id %d is not allocated", ErrBadOp, op.ID)
		}
		if err := r.verify(op.ID, b); err != nil {
			return 0, err
		}
		r.a.Free(b.ptr)
		delete(r.live, op.ID)
		return -int64(b.size), nil
	}
	return 0, fmt.Errorf("%w: unknown op %q", ErrBadOp, byte(op.Kind))
}

// checkPlacement verifies a new block is aligned, inside the heap, and
// disjoint from every other live block.
func (r *replayer) checkPlacement(id int, p alloc.Ptr, size int) error {
	if size == 0 {
		return nil
	}
	if p%8 != 0 {
		return fmt.Errorf("%w: id %d at %d is not 8-byte aligned", ErrCorrupted, id, p)
	}
	lo, hi := int(p), int(p)+size
	if hi > r.a.HeapSize() {
		return fmt.Errorf("%w: id %d [%d,%d) runs past the heap end %d", ErrCorrupted, id, lo, hi, r.a.HeapSize())
	}
	for other, b := range r.live {
		if b.size == 0 {
			continue
		}
		olo, ohi := int(b.ptr), int(b.ptr)+b.size
		if lo < ohi && olo < hi {
			return fmt.Errorf("%w: id %d [%d,%d) overlaps id %d [%d,%d)", ErrCorrupted, id, lo, hi, other, olo, ohi)
		}
	}
	return nil
}

// stamp writes the id's pattern over bytes [from, size) of p's payload and
// records the fingerprint of the whole payload.
func (r *replayer) stamp(id int, p alloc.Ptr, from, size int) liveBlock {
	buf := r.a.Payload(p)[:size]
	for i := from; i < size; i++ {
		buf[i] = patternByte(id, i)
	}
	return liveBlock{ptr: p, size: size, sum: xxhash.Sum64(buf)}
}

func (r *replayer) verify(id int, b liveBlock) error {
	if got := xxhash.Sum64(r.a.Payload(b.ptr)[:b.size]); got != b.sum {
		return fmt.Errorf("%w: payload of id %d at %d changed (fingerprint %016x, want %016x)",
			ErrCorrupted, id, b.ptr, got, b.sum)
	}
	return nil
}

func patternByte(id, i int) byte {
	return byte(i) ^ byte(id*131+7)
}

// patternSum returns the fingerprint of the first n pattern bytes of id
// without materializing them all at once.
func patternSum(id, n int) uint64 {
	d := xxhash.New()
	var chunk [256]byte
	for off := 0; off < n; off += len(chunk) {
		m := min(len(chunk), n-off)
		for i := range m {
			chunk[i] = patternByte(id, off+i)
		}
		d.Write(chunk[:m])
	}
	return d.Sum64()
}

// Summary aggregates several replays the way the malloc-lab driver does:
// utilization is averaged per trace, throughput is total ops over total time.
type Summary struct {
	Traces         int
	Ops            int
	Elapsed        time.Duration
	AvgUtilization float64
	Throughput     float64
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	var s Summary
	var util float64
	for _, r := range results {
		s.Traces++
		s.Ops += r.Ops
		s.Elapsed += r.Elapsed
		util += r.Utilization
	}
	if s.Traces > 0 {
		s.AvgUtilization = util / float64(s.Traces)
	}
	if secs := s.Elapsed.Seconds(); secs > 0 {
		s.Throughput = float64(s.Ops) / secs
	}
	return s
}
