package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// AdjustedSize returns the block size needed to serve a payload request of n
// bytes: the aligned request plus header and footer, never below MinBlockSize.
func AdjustedSize(n int) int {
	return max(MinBlockSize, Align8(n)+Overhead)
}

// IsAligned reports whether off sits on an Alignment boundary.
func IsAligned(off int) bool {
	return off&AlignmentMask == 0
}
