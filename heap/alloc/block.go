package alloc

import "github.com/joshuapare/heapkit/internal/format"

// overhead is the header plus footer cost of every block.
const overhead = format.Overhead

// firstBlock is the payload offset of the first block after the prologue.
const firstBlock = Ptr(format.PrologueOffset + format.MinBlockSize)

func (a *Allocator) mem() []byte {
	return a.arena.Bytes()
}

func (a *Allocator) hdr(p Ptr) uint32 {
	return format.ReadU32(a.mem(), format.HeaderOffset(int(p)))
}

func (a *Allocator) ftr(p Ptr) uint32 {
	return format.ReadU32(a.mem(), format.FooterOffset(int(p), a.sizeOf(p)))
}

func (a *Allocator) sizeOf(p Ptr) int {
	return format.SizeOf(a.hdr(p))
}

func (a *Allocator) isAllocated(p Ptr) bool {
	return format.IsAllocated(a.hdr(p))
}

func (a *Allocator) isLocked(p Ptr) bool {
	return format.IsLocked(a.hdr(p))
}

// setSize writes header and footer of the block at p. The lock flag is
// cleared.
func (a *Allocator) setSize(p Ptr, size int, allocated bool) {
	w := format.Pack(size, allocated, false)
	mem := a.mem()
	format.PutU32(mem, format.HeaderOffset(int(p)), w)
	format.PutU32(mem, format.FooterOffset(int(p), size), w)
}

// setLock updates the lock flag in header and footer of a free block.
func (a *Allocator) setLock(p Ptr, locked bool) {
	w := format.WithLock(a.hdr(p), locked)
	mem := a.mem()
	format.PutU32(mem, format.HeaderOffset(int(p)), w)
	format.PutU32(mem, format.FooterOffset(int(p), format.SizeOf(w)), w)
}

// next returns the physical successor of p.
func (a *Allocator) next(p Ptr) Ptr {
	return p + Ptr(a.sizeOf(p))
}

// prev returns the physical predecessor of p, found through its footer.
func (a *Allocator) prev(p Ptr) Ptr {
	w := format.ReadU32(a.mem(), int(p)-overhead)
	return p - Ptr(format.SizeOf(w))
}

// Free-list links live in the first 16 payload bytes of a free block.

func (a *Allocator) prevFree(p Ptr) Ptr {
	return Ptr(format.ReadU64(a.mem(), int(p)))
}

func (a *Allocator) nextFree(p Ptr) Ptr {
	return Ptr(format.ReadU64(a.mem(), int(p)+format.LinkSize))
}

func (a *Allocator) setPrevFree(p, v Ptr) {
	format.PutU64(a.mem(), int(p), uint64(v))
}

func (a *Allocator) setNextFree(p, v Ptr) {
	format.PutU64(a.mem(), int(p)+format.LinkSize, uint64(v))
}
