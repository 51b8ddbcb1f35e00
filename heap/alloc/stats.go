package alloc

import (
	"fmt"
	"io"
)

// Stats holds allocator counters. Byte figures include block overhead.
type Stats struct {
	AllocCalls    int // Alloc calls with a non-zero size, including those made by Realloc
	AllocFastPath int // served from the free lists
	AllocSlowPath int // served after growing the arena
	FreeCalls     int

	ReallocCalls   int
	ReallocShrink  int // request fit the current block
	ReallocInPlace int // grew by absorbing the successor
	ReallocMoved   int // fell back to alloc+copy+free

	GrowCalls int
	GrowBytes int64

	SplitCount       int
	PreSplitCount    int
	CoalesceForward  int
	CoalesceBackward int
	LockCount        int

	LiveBytes     int64 // bytes in allocated blocks
	PeakLiveBytes int64

	// Filled in by Allocator.Stats from the current heap.
	HeapSize   int
	FreeBlocks int
	FreeBytes  int64
}

// Stats returns a snapshot of the counters together with the current heap
// size and free-list totals.
func (a *Allocator) Stats() Stats {
	s := a.stats
	s.HeapSize = a.arena.Size()
	for _, head := range a.heads {
		for p := head; p != Nil; p = a.nextFree(p) {
			s.FreeBlocks++
			s.FreeBytes += int64(a.sizeOf(p))
		}
	}
	return s
}

// PrintStats writes a human-readable summary of Stats to w.
func (a *Allocator) PrintStats(w io.Writer) {
	s := a.Stats()
	fmt.Fprintf(w, "=== ALLOCATOR STATISTICS ===\n")
	fmt.Fprintf(w, "Heap size:          %d bytes (%d grow calls, %d bytes added)\n",
		s.HeapSize, s.GrowCalls, s.GrowBytes)
	fmt.Fprintf(w, "Alloc calls:        %d (fast: %d, slow: %d)\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath)
	fmt.Fprintf(w, "Free calls:         %d\n", s.FreeCalls)
	fmt.Fprintf(w, "Realloc calls:      %d (shrink: %d, in place: %d, moved: %d)\n",
		s.ReallocCalls, s.ReallocShrink, s.ReallocInPlace, s.ReallocMoved)
	fmt.Fprintf(w, "Live bytes:         %d (peak %d)\n", s.LiveBytes, s.PeakLiveBytes)
	fmt.Fprintf(w, "Free blocks:        %d (%d bytes)\n", s.FreeBlocks, s.FreeBytes)
	fmt.Fprintf(w, "Splits:             %d (pre-split: %d)\n", s.SplitCount, s.PreSplitCount)
	fmt.Fprintf(w, "Coalesce fwd:       %d\n", s.CoalesceForward)
	fmt.Fprintf(w, "Coalesce back:      %d\n", s.CoalesceBackward)
	fmt.Fprintf(w, "Realloc locks:      %d\n", s.LockCount)
}
