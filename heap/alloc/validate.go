package alloc

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/joshuapare/heapkit/internal/format"
)

// ViolationKind classifies a heap invariant violation.
type ViolationKind int

const (
	BadPrologue ViolationKind = iota
	BadEpilogue
	OutOfBounds
	Misaligned
	BlockTooSmall
	HeaderFooterMismatch
	LockOnAllocated
	AdjacentFree
	ListedAllocated
	WrongClass
	Unsorted
	BrokenLink
	ListedTwice
	Unlisted
)

var violationNames = [...]string{
	BadPrologue:          "bad prologue",
	BadEpilogue:          "bad epilogue",
	OutOfBounds:          "out of bounds",
	Misaligned:           "misaligned",
	BlockTooSmall:        "block too small",
	HeaderFooterMismatch: "header/footer mismatch",
	LockOnAllocated:      "lock on allocated block",
	AdjacentFree:         "adjacent free blocks",
	ListedAllocated:      "allocated block in free list",
	WrongClass:           "block in wrong size class",
	Unsorted:             "free list not ascending",
	BrokenLink:           "broken free-list link",
	ListedTwice:          "free block listed twice",
	Unlisted:             "free block not listed",
}

func (k ViolationKind) String() string {
	if k >= 0 && int(k) < len(violationNames) {
		return violationNames[k]
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation is one broken heap invariant.
type Violation struct {
	Kind   ViolationKind
	Ptr    Ptr
	Detail string
}

func (v Violation) Error() string {
	if v.Detail == "" {
		return fmt.Sprintf("%s at %d", v.Kind, v.Ptr)
	}
	return fmt.Sprintf("%s at %d: %s", v.Kind, v.Ptr, v.Detail)
}

// Validate walks the arena and every free list and returns all invariant
// violations found. A healthy heap yields none. Validate does not modify the
// heap.
func (a *Allocator) Validate() []Violation {
	if !a.initialized {
		return nil
	}
	var out []Violation
	report := func(k ViolationKind, p Ptr, msg string, args ...any) {
		out = append(out, Violation{Kind: k, Ptr: p, Detail: fmt.Sprintf(msg, args...)})
	}

	free := a.walkBlocks(report)
	a.walkLists(free, report)
	return out
}

type reportFunc func(k ViolationKind, p Ptr, msg string, args ...any)

// walkBlocks checks the physical block sequence and returns the set of free
// blocks it met.
func (a *Allocator) walkBlocks(report reportFunc) map[Ptr]bool {
	free := make(map[Ptr]bool)
	size := a.arena.Size()
	if size < format.InitialArenaSize {
		report(OutOfBounds, Nil, "arena is %d bytes", size)
		return free
	}

	pro := Ptr(format.PrologueOffset)
	h, f := a.hdr(pro), format.ReadU32(a.mem(), format.FooterOffset(int(pro), format.MinBlockSize))
	if want := format.Pack(format.MinBlockSize, true, false); h != want || f != want {
		report(BadPrologue, pro, "header %#x footer %#x", h, f)
	}

	prevFree := false
	for p := firstBlock; ; {
		if int(p) > size {
			report(OutOfBounds, p, "block starts past arena end %d", size)
			return free
		}
		h := a.hdr(p)
		bsize, allocated, locked := format.Unpack(h)
		if bsize == 0 {
			if int(p) != size || !allocated {
				report(BadEpilogue, p, "zero-size header %#x, arena end %d", h, size)
			}
			return free
		}
		if !format.IsAligned(int(p)) || !format.IsAligned(bsize) {
			report(Misaligned, p, "size %d", bsize)
			return free
		}
		if bsize < format.MinBlockSize {
			report(BlockTooSmall, p, "size %d", bsize)
			return free
		}
		if int(p)+bsize > size {
			report(OutOfBounds, p, "size %d overruns arena end %d", bsize, size)
			return free
		}
		if f := a.ftr(p); f != h {
			report(HeaderFooterMismatch, p, "header %#x footer %#x", h, f)
		}
		if locked && allocated {
			report(LockOnAllocated, p, "")
		}
		if !allocated {
			if prevFree {
				report(AdjacentFree, p, "")
			}
			free[p] = true
		}
		prevFree = !allocated
		p += Ptr(bsize)
	}
}

// walkLists checks every free list against the free blocks found by
// walkBlocks.
func (a *Allocator) walkLists(free map[Ptr]bool, report reportFunc) {
	size := a.arena.Size()
	seen := make(map[Ptr]bool, len(free))

	for c, head := range a.heads {
		prev := Nil
		prevSize := 0
		for p := head; p != Nil; p = a.nextFree(p) {
			if p < firstBlock || int(p)+2*format.LinkSize > size || !format.IsAligned(int(p)) {
				report(BrokenLink, p, "class %d link from %d leaves the heap", c, prev)
				break
			}
			if seen[p] {
				report(ListedTwice, p, "class %d", c)
				break
			}
			seen[p] = true

			bsize := a.sizeOf(p)
			if a.isAllocated(p) {
				report(ListedAllocated, p, "class %d", c)
			}
			if got := a.classes.classOf(bsize); got != c {
				report(WrongClass, p, "size %d belongs to class %d, listed in %d", bsize, got, c)
			}
			if bsize < prevSize {
				report(Unsorted, p, "size %d after %d in class %d", bsize, prevSize, c)
			}
			if back := a.prevFree(p); back != prev {
				report(BrokenLink, p, "prev link %d, expected %d", back, prev)
			}
			prev, prevSize = p, bsize
		}
	}

	for _, p := range slices.Sorted(maps.Keys(free)) {
		if !seen[p] {
			report(Unlisted, p, "size %d", a.sizeOf(p))
		}
	}
}

// Check runs Validate and folds the violations into one error wrapping
// ErrHeapCorrupt. It returns nil for a healthy heap.
func (a *Allocator) Check() error {
	vs := a.Validate()
	if len(vs) == 0 {
		return nil
	}
	errs := make([]error, len(vs))
	for i, v := range vs {
		errs[i] = v
	}
	return fmt.Errorf("%w: %d violations: %w", ErrHeapCorrupt, len(vs), errors.Join(errs...))
}

// Blocks lists the blocks between prologue and epilogue in address order.
// The walk stops at the first block whose header cannot be trusted.
func (a *Allocator) Blocks() []BlockInfo {
	if !a.initialized {
		return nil
	}
	var out []BlockInfo
	size := a.arena.Size()
	for p := firstBlock; int(p) < size; {
		bsize, allocated, locked := format.Unpack(a.hdr(p))
		if bsize < format.MinBlockSize || int(p)+bsize > size {
			break
		}
		out = append(out, BlockInfo{Ptr: p, Size: bsize, Allocated: allocated, Locked: locked})
		p += Ptr(bsize)
	}
	return out
}
