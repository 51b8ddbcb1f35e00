package format

// Block header/footer word layout (little-endian uint32):
//
//	Bits   Description
//	31..3  Block size in bytes (always a multiple of Alignment)
//	1      Reallocation lock (free blocks only)
//	0      Allocated
//
// Size is alignment-padded, so the low three bits are free for flags.

// Pack encodes a block size and its flags into one header word.
func Pack(size int, allocated, locked bool) uint32 {
	w := uint32(size) &^ flagMask
	if allocated {
		w |= flagAllocated
	}
	if locked {
		w |= flagLocked
	}
	return w
}

// Unpack decodes a header word.
func Unpack(w uint32) (size int, allocated, locked bool) {
	return int(w &^ flagMask), w&flagAllocated != 0, w&flagLocked != 0
}

// SizeOf returns the size field of a header word.
func SizeOf(w uint32) int {
	return int(w &^ flagMask)
}

// IsAllocated reports the allocated flag of a header word.
func IsAllocated(w uint32) bool {
	return w&flagAllocated != 0
}

// IsLocked reports the reallocation lock flag of a header word.
func IsLocked(w uint32) bool {
	return w&flagLocked != 0
}

// WithLock returns w with the reallocation lock set or cleared.
func WithLock(w uint32, locked bool) uint32 {
	if locked {
		return w | flagLocked
	}
	return w &^ flagLocked
}

// HeaderOffset returns the offset of the header word of the block whose
// payload starts at p.
func HeaderOffset(p int) int {
	return p - WordSize
}

// FooterOffset returns the offset of the footer word of a block of the given
// size whose payload starts at p.
func FooterOffset(p, size int) int {
	return p + size - Overhead
}
