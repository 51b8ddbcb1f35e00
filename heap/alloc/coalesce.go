package alloc

// coalesce merges the free block p with free physical neighbors and inserts
// the result into the free lists. p must be marked free and not be listed.
// Returns the payload offset of the merged block, the lowest address of the
// merged run.
func (a *Allocator) coalesce(p Ptr) Ptr {
	size := a.sizeOf(p)
	prev, next := a.prev(p), a.next(p)
	prevAlloc, nextAlloc := a.isAllocated(prev), a.isAllocated(next)

	switch {
	case prevAlloc && nextAlloc:
		// nothing to merge

	case prevAlloc && !nextAlloc:
		a.remove(next)
		size += a.sizeOf(next)
		a.setSize(p, size, false)
		a.stats.CoalesceForward++

	case !prevAlloc && nextAlloc:
		a.remove(prev)
		size += a.sizeOf(prev)
		a.setSize(prev, size, false)
		p = prev
		a.stats.CoalesceBackward++

	default:
		a.remove(prev)
		a.remove(next)
		size += a.sizeOf(prev) + a.sizeOf(next)
		a.setSize(prev, size, false)
		p = prev
		a.stats.CoalesceForward++
		a.stats.CoalesceBackward++
	}

	a.insert(p)
	return p
}
