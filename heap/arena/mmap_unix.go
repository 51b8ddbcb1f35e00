//go:build unix

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapHost reserves address space with an anonymous PROT_NONE mapping and
// commits it page by page as the arena grows.
type MmapHost struct {
	mem       []byte // whole reservation
	size      int    // bytes handed out
	committed int    // bytes readable/writable, page aligned
	pageSize  int
}

// NewMmapHost reserves at least reserve bytes of address space. No memory is
// committed until Extend.
func NewMmapHost(reserve int) (*MmapHost, error) {
	if reserve <= 0 {
		return nil, ErrInvalidSize
	}
	pageSize := unix.Getpagesize()
	reserve = roundUp(reserve, pageSize)

	mem, err := unix.Mmap(-1, 0, reserve, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", reserve, err)
	}
	return &MmapHost{mem: mem, pageSize: pageSize}, nil
}

// Extend commits enough pages to cover n more bytes.
func (h *MmapHost) Extend(n int) ([]byte, error) {
	if h.mem == nil {
		return nil, ErrClosed
	}
	if n < 0 {
		return nil, ErrInvalidSize
	}
	newSize := h.size + n
	if newSize > len(h.mem) {
		return nil, ErrHostExhausted
	}
	if newSize > h.committed {
		end := min(roundUp(newSize, h.pageSize), len(h.mem))
		if err := unix.Mprotect(h.mem[h.committed:end], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return nil, fmt.Errorf("arena: commit pages [%d,%d): %w", h.committed, end, err)
		}
		h.committed = end
	}
	h.size = newSize
	return h.mem[:h.size], nil
}

// Len returns the number of bytes handed out.
func (h *MmapHost) Len() int {
	return h.size
}

// Reserved returns the size of the address space reservation.
func (h *MmapHost) Reserved() int {
	return len(h.mem)
}

// Close releases the reservation. Memory handed out by Extend must not be
// used afterwards.
func (h *MmapHost) Close() error {
	if h.mem == nil {
		return nil
	}
	err := unix.Munmap(h.mem)
	h.mem = nil
	h.size = 0
	h.committed = 0
	return err
}

func roundUp(n, to int) int {
	return (n + to - 1) / to * to
}
