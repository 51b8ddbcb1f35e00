// Package arrowmem lets Apache Arrow builders and buffers allocate from a
// heapkit allocator.
//
// Arrow's memory.Allocator has no error returns, so an allocation failure
// panics with an error wrapping alloc.ErrOutOfMemory. Payloads are 8-byte
// aligned rather than Arrow's preferred 64; every Arrow primitive type is
// satisfied by 8.
//
// The allocator's host must never relocate the arena. Both arena.SliceHost
// and arena.MmapHost qualify.
package arrowmem

import (
	"fmt"
	"unsafe"

	"github.com/apache/arrow/go/arrow/memory"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Allocator adapts *alloc.Allocator to memory.Allocator.
type Allocator struct {
	a *alloc.Allocator
}

var _ memory.Allocator = (*Allocator)(nil)

// New wraps an initialized allocator.
func New(a *alloc.Allocator) *Allocator {
	return &Allocator{a: a}
}

// Allocate returns a zeroed slice of size bytes carved from the heap.
func (m *Allocator) Allocate(size int) []byte {
	p, err := m.a.Alloc(size)
	if err != nil {
		panic(fmt.Errorf("arrowmem: allocate %d bytes: %w", size, err))
	}
	if p == alloc.Nil {
		return []byte{}
	}
	buf := m.a.Payload(p)[:size]
	clear(buf)
	return buf
}

// Reallocate resizes b, preserving its contents up to the smaller size.
func (m *Allocator) Reallocate(size int, b []byte) []byte {
	if cap(b) == 0 {
		return m.Allocate(size)
	}
	old := len(b)
	p, err := m.a.Realloc(m.ptrOf(b), size)
	if err != nil {
		panic(fmt.Errorf("arrowmem: reallocate %d -> %d bytes: %w", old, size, err))
	}
	if p == alloc.Nil {
		return []byte{}
	}
	buf := m.a.Payload(p)[:size]
	if size > old {
		clear(buf[old:])
	}
	return buf
}

// Free returns b to the heap. Empty slices from zero-size allocations are
// ignored.
func (m *Allocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	m.a.Free(m.ptrOf(b))
}

// ptrOf maps a slice handed out by this adapter back to its block.
func (m *Allocator) ptrOf(b []byte) alloc.Ptr {
	heap := m.a.Arena().Bytes()
	base := uintptr(unsafe.Pointer(unsafe.SliceData(heap)))
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if addr < base || addr >= base+uintptr(len(heap)) {
		panic(fmt.Sprintf("arrowmem: slice at %#x is outside the heap [%#x, %#x)", addr, base, base+uintptr(len(heap))))
	}
	return alloc.Ptr(addr - base)
}
