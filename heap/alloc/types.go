package alloc

// Ptr is the payload offset of a block within the arena.
type Ptr uint32

// Nil is the null Ptr. Offset zero is the arena's padding word and never a
// payload.
const Nil Ptr = 0

// BlockInfo describes one block of the arena.
type BlockInfo struct {
	Ptr       Ptr
	Size      int // total size including header and footer
	Allocated bool
	Locked    bool
}

// PayloadSize returns the usable bytes of the block.
func (b BlockInfo) PayloadSize() int {
	return b.Size - overhead
}

// End returns the offset one past the block's footer, which is the payload
// offset of the next block.
func (b BlockInfo) End() Ptr {
	return b.Ptr + Ptr(b.Size)
}
