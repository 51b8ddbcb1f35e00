// Package alloc implements a boundary-tag, segregated free-list allocator over
// a growable byte arena.
//
// # Overview
//
// The allocator hands out offsets (Ptr) into an arena obtained from an
// arena.Host. All bookkeeping lives inside the arena itself: every block
// carries a header and footer word, and free blocks thread two link slots
// through their payload. No Go heap memory is used per block.
//
// # Block Layout
//
// A block is addressed by its payload offset p:
//
//	p-4          header   size | locked<<1 | allocated
//	p            prev_free link (free blocks only, 8 bytes)
//	p+8          next_free link (free blocks only, 8 bytes)
//	p+size-8     footer   copy of header
//
// The arena starts with a padding word, an allocated prologue block of
// MinBlockSize bytes, and ends with a zero-size allocated epilogue header.
// The sentinels let coalescing inspect neighbors without bounds checks.
//
// # Size Classes
//
// Free blocks are kept in 15 classes by default:
//
//	Class  0:     < 32 bytes
//	Class  1:    32 -    64
//	Class  2:    64 -   128
//	...
//	Class 13: 25000 - 32000
//	Class 14: 32000+
//
// Each class is sorted by ascending size, so the first fit found is close to
// the best fit.
//
// # Usage Example
//
//	a, err := alloc.NewInMemory(1<<20, nil)
//	if err != nil {
//	    return err
//	}
//	p, err := a.Alloc(40)
//	if err != nil {
//	    return err
//	}
//	copy(a.Payload(p), "hello")
//	p, err = a.Realloc(p, 400)
//	...
//	a.Free(p)
//
// # Reallocation
//
// Realloc never moves a block when shrinking. When growing it first tries to
// absorb a free physical successor, extending the arena when the block is the
// last one. Only when that fails does it allocate, copy, and free.
//
// A free block left behind a growing reallocation can be locked: find-fit
// skips it, keeping it available for the next growth of its neighbor. The
// lock is released when the neighbor is freed.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must serialize access.
//
// # Diagnostics
//
// Validate walks the arena and every free list and reports violations of the
// heap invariants. It is meant for tests and tooling; no allocator operation
// depends on it.
package alloc
