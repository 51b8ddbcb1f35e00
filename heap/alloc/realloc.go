package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Realloc resizes the block at p to hold size bytes and returns its
// (possibly new) address.
//
//   - p == Nil behaves like Alloc(size).
//   - size == 0 frees p and returns Nil.
//   - A request that fits the current block returns p unchanged.
//   - Growth absorbs a free successor in place when it is large enough,
//     extending the arena first if p is the last block.
//   - Otherwise the payload moves to a fresh block and p is freed.
//
// On ErrOutOfMemory the original block is left intact.
func (a *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	if !a.initialized {
		return Nil, ErrNotInitialized
	}
	if size < 0 || int64(size) > maxRequest {
		return Nil, fmt.Errorf("%w: realloc size %d", ErrInvalidArgument, size)
	}
	if p == Nil {
		return a.Alloc(size)
	}
	if size == 0 {
		a.Free(p)
		return Nil, nil
	}
	a.stats.ReallocCalls++

	old := a.sizeOf(p)
	asize := format.AdjustedSize(size)
	if asize <= old {
		a.stats.ReallocShrink++
		return p, nil
	}

	want := asize + a.cfg.ReallocBias
	next := a.next(p)
	if a.sizeOf(next) == 0 {
		// p is the last block: grow the arena behind it.
		if _, err := a.extendHeap(max(want-old, a.cfg.ChunkSize)); err != nil {
			a.log.Debug("realloc tail extension failed", "ptr", uint32(p), "want", want, "err", err)
		}
		next = a.next(p)
	}

	if !a.isAllocated(next) && old+a.sizeOf(next) >= want {
		a.absorbNext(p, want)
		a.stats.ReallocInPlace++
		a.lockSuccessor(p)
		return p, nil
	}

	np, err := a.Alloc(size)
	if err != nil {
		return Nil, err
	}
	copy(a.Payload(np), a.mem()[p:int(p)+old-overhead])
	a.Free(p)
	a.stats.ReallocMoved++
	a.lockSuccessor(np)
	return np, nil
}

// absorbNext grows the allocated block p into its free successor up to want
// bytes. A remainder large enough for a block stays free.
func (a *Allocator) absorbNext(p Ptr, want int) {
	old := a.sizeOf(p)
	next := a.next(p)
	total := old + a.sizeOf(next)
	a.remove(next)

	if rem := total - want; rem >= format.MinBlockSize {
		a.setSize(p, want, true)
		rest := a.next(p)
		a.setSize(rest, rem, false)
		a.coalesce(rest)
		a.stats.SplitCount++
	} else {
		a.setSize(p, total, true)
	}

	a.stats.LiveBytes += int64(a.sizeOf(p) - old)
	a.stats.PeakLiveBytes = max(a.stats.PeakLiveBytes, a.stats.LiveBytes)
}

// lockSuccessor reserves a small free block behind a grown block for its next
// growth. find-fit skips locked blocks; Free of p releases the lock.
func (a *Allocator) lockSuccessor(p Ptr) {
	if !a.cfg.LockAfterRealloc {
		return
	}
	next := a.next(p)
	if a.isAllocated(next) || a.sizeOf(next) > a.cfg.SpareThreshold {
		return
	}
	a.setLock(next, true)
	a.stats.LockCount++
}
