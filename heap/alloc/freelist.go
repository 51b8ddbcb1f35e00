package alloc

// insert links the free block p into its size class, keeping the class
// sorted by ascending size. Equal sizes go in front of existing entries.
func (a *Allocator) insert(p Ptr) {
	size := a.sizeOf(p)
	c := a.classes.classOf(size)

	prev := Nil
	cur := a.heads[c]
	for cur != Nil && a.sizeOf(cur) < size {
		prev = cur
		cur = a.nextFree(cur)
	}

	a.setPrevFree(p, prev)
	a.setNextFree(p, cur)
	if prev == Nil {
		a.heads[c] = p
	} else {
		a.setNextFree(prev, p)
	}
	if cur != Nil {
		a.setPrevFree(cur, p)
	}
}

// remove unlinks the free block p. Its header must still hold the size it
// was inserted with.
func (a *Allocator) remove(p Ptr) {
	prev, next := a.prevFree(p), a.nextFree(p)
	if prev == Nil {
		a.heads[a.classes.classOf(a.sizeOf(p))] = next
	} else {
		a.setNextFree(prev, next)
	}
	if next != Nil {
		a.setPrevFree(next, prev)
	}
}

// findFit returns the first unlocked free block of at least size bytes,
// scanning classes upward from the one size belongs to. Lists are sorted,
// so the first hit in a class is its smallest fitting block.
func (a *Allocator) findFit(size int) Ptr {
	for c := a.classes.classOf(size); c < len(a.heads); c++ {
		for p := a.heads[c]; p != Nil; p = a.nextFree(p) {
			if a.sizeOf(p) >= size && !a.isLocked(p) {
				return p
			}
		}
	}
	return Nil
}
