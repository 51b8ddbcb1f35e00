// Package format holds the low-level block layout of a heapkit arena: word
// sizes, alignment, and the encoding of the header/footer word every block
// carries. Nothing outside this package reinterprets raw arena bytes; callers
// go through Pack/Unpack and the little-endian word helpers.
package format

const (
	// WordSize is the size of a header or footer word.
	WordSize = 4

	// LinkSize is the size of a free-list link slot stored in the payload of
	// a free block. Two slots (prev, next) follow the header.
	LinkSize = 8

	// Alignment is the payload alignment guaranteed for every block.
	Alignment = 8

	// AlignmentMask is Alignment-1, used for rounding.
	AlignmentMask = Alignment - 1

	// Overhead is the per-block bookkeeping cost: one header plus one footer.
	Overhead = 2 * WordSize

	// MinBlockSize is the smallest block that can hold a header, two link
	// slots, and a footer.
	//
	//	Offset  Size  Description
	//	-4      4     Header (size | flags)
	//	0       8     prev_free link (payload offset, 0 = none)
	//	8       8     next_free link
	//	16      4     Footer (copy of header)
	MinBlockSize = WordSize + 2*LinkSize + WordSize

	// DefaultChunkSize is the smallest amount the heap is extended by.
	DefaultChunkSize = 16

	// PrologueOffset is the payload offset of the prologue sentinel. The word
	// at offset 0 is padding so that payloads land on Alignment boundaries.
	PrologueOffset = 2 * WordSize

	// InitialArenaSize is the arena size after formatting: padding word,
	// prologue block, epilogue header.
	InitialArenaSize = MinBlockSize + 2*WordSize

	// MaxBlockSize is the largest size representable in a header word.
	MaxBlockSize = 0xFFFFFFFF &^ AlignmentMask
)

const (
	// flagAllocated marks a block as in use.
	flagAllocated = 0x1

	// flagLocked marks a free block reserved for reallocation of its
	// physical predecessor.
	flagLocked = 0x2

	flagMask = AlignmentMask
)
