package alloc

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// maxArenaSize bounds the arena so every offset fits a Ptr.
const maxArenaSize = math.MaxUint32

// maxRequest is the largest payload whose block size fits a header word.
const maxRequest = format.MaxBlockSize - overhead

// Allocator is a segregated free-list allocator over one arena.
//
// The zero value is not usable; construct with New or NewInMemory.
type Allocator struct {
	arena   *arena.Arena
	cfg     Config
	classes *sizeClassTable

	// heads[c] is the smallest free block of class c, or Nil.
	heads []Ptr

	initialized bool
	log         *slog.Logger
	stats       Stats

	// Test hook: called with the byte count before every arena growth.
	onGrow func(int)
}

// New creates an allocator over an empty host. A nil cfg selects
// DefaultConfig. Call Init before allocating.
func New(host arena.Host, cfg *Config) (*Allocator, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ar, err := arena.New(host)
	if err != nil {
		return nil, err
	}

	classes := newSizeClassTable(c.ClassBounds)
	return &Allocator{
		arena:   ar,
		cfg:     c,
		classes: classes,
		heads:   make([]Ptr, classes.numClasses()),
		log:     newLogger(c.Logger),
	}, nil
}

// NewInMemory creates and initializes an allocator over a SliceHost with the
// given capacity.
func NewInMemory(capacity int, cfg *Config) (*Allocator, error) {
	a, err := New(arena.NewSliceHost(capacity), cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Init(); err != nil {
		return nil, err
	}
	return a, nil
}

// Init formats the arena with the padding word, prologue, and epilogue, then
// extends it by one chunk. If either step fails Init returns ErrOutOfMemory,
// the allocator stays uninitialized, and Init may be called again. A retry
// reuses the frame written by the failed call.
func (a *Allocator) Init() error {
	if a.initialized {
		return ErrInitialized
	}
	if a.arena.Size() == 0 {
		if _, err := a.arena.Grow(format.InitialArenaSize); err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		}
		mem := a.mem()
		format.PutU32(mem, 0, 0)
		a.setSize(format.PrologueOffset, format.MinBlockSize, true)
		a.writeEpilogue()
		clear(a.heads)
	}

	if _, err := a.extendHeap(a.cfg.ChunkSize); err != nil {
		return err
	}
	a.initialized = true
	return nil
}

// Alloc returns a block with at least size usable bytes, aligned to 8.
// A zero size returns Nil without error.
func (a *Allocator) Alloc(size int) (Ptr, error) {
	if !a.initialized {
		return Nil, ErrNotInitialized
	}
	if size < 0 || int64(size) > maxRequest {
		return Nil, fmt.Errorf("%w: alloc size %d", ErrInvalidArgument, size)
	}
	if size == 0 {
		return Nil, nil
	}
	a.stats.AllocCalls++

	asize := format.AdjustedSize(size)
	if p := a.findFit(asize); p != Nil {
		a.stats.AllocFastPath++
		if a.sizeOf(p)-asize > a.cfg.SpareThreshold {
			p = a.preSplit(p, asize)
		}
		a.place(p, asize)
		return p, nil
	}

	p, err := a.extendHeap(max(asize, a.cfg.ChunkSize))
	if err != nil {
		a.log.Debug("alloc failed", "size", size, "block", asize, "heap", a.arena.Size(), "err", err)
		return Nil, err
	}
	a.stats.AllocSlowPath++
	a.place(p, asize)
	return p, nil
}

// Free returns the block at p to the heap. Freeing Nil is a no-op. p must
// have come from Alloc or Realloc on this allocator and not be freed yet.
func (a *Allocator) Free(p Ptr) {
	if p == Nil || !a.initialized {
		return
	}
	a.stats.FreeCalls++

	// A lock reserved this neighbor for p's growth; p is going away.
	if next := a.next(p); a.isLocked(next) {
		a.setLock(next, false)
	}

	size := a.sizeOf(p)
	a.stats.LiveBytes -= int64(size)
	a.setSize(p, size, false)
	a.coalesce(p)
}

// preSplit carves a block of asize bytes from the high end of the free block
// p. The low part stays free; the high part is returned, still listed, ready
// for place.
func (a *Allocator) preSplit(p Ptr, asize int) Ptr {
	total := a.sizeOf(p)
	a.remove(p)

	low := total - asize
	a.setSize(p, low, false)
	a.insert(p)

	tight := p + Ptr(low)
	a.setSize(tight, asize, false)
	a.insert(tight)

	a.stats.PreSplitCount++
	return tight
}

// place marks the listed free block p allocated for asize bytes, splitting
// off the remainder when it can form a block of its own.
func (a *Allocator) place(p Ptr, asize int) {
	total := a.sizeOf(p)
	a.remove(p)

	if rem := total - asize; rem >= format.MinBlockSize {
		a.setSize(p, asize, true)
		rest := a.next(p)
		a.setSize(rest, rem, false)
		a.coalesce(rest)
		a.stats.SplitCount++
	} else {
		a.setSize(p, total, true)
	}

	a.stats.LiveBytes += int64(a.sizeOf(p))
	a.stats.PeakLiveBytes = max(a.stats.PeakLiveBytes, a.stats.LiveBytes)
}

// extendHeap grows the arena by at least n bytes. The old epilogue header
// becomes the header of a new free block, which is coalesced with a free
// predecessor and listed. Returns the resulting free block.
func (a *Allocator) extendHeap(n int) (Ptr, error) {
	size := max(format.Align8(n), format.MinBlockSize)
	if int64(a.arena.Size())+int64(size) > maxArenaSize {
		return Nil, fmt.Errorf("%w: arena of %d bytes cannot grow by %d",
			ErrOutOfMemory, a.arena.Size(), size)
	}

	if a.onGrow != nil {
		a.onGrow(size)
	}
	base, err := a.arena.Grow(size)
	if err != nil {
		return Nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(size)

	p := Ptr(base)
	a.setSize(p, size, false)
	a.writeEpilogue()
	a.log.Debug("heap extended", "bytes", size, "heap", a.arena.Size())

	return a.coalesce(p), nil
}

func (a *Allocator) writeEpilogue() {
	format.PutU32(a.mem(), a.arena.Size()-format.WordSize, format.Pack(0, true, false))
}

// Payload returns the usable bytes of the allocated block at p, or nil for
// Nil. The slice aliases the arena and stays valid until p is freed.
func (a *Allocator) Payload(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	end := int(p) + a.sizeOf(p) - overhead
	return a.mem()[p:end:end]
}

// UsableSize returns the payload capacity of the block at p.
func (a *Allocator) UsableSize(p Ptr) int {
	if p == Nil {
		return 0
	}
	return a.sizeOf(p) - overhead
}

// HeapSize returns the current arena size in bytes.
func (a *Allocator) HeapSize() int {
	return a.arena.Size()
}

// Arena exposes the underlying arena.
func (a *Allocator) Arena() *arena.Arena {
	return a.arena
}

// Config returns the configuration in effect.
func (a *Allocator) Config() Config {
	return a.cfg
}
