package arena

// SliceHost is an in-process Host backed by a Go byte slice whose capacity is
// reserved up front. Extend reslices within that capacity, so returned memory
// never relocates.
type SliceHost struct {
	buf []byte
}

// NewSliceHost reserves capacity bytes for the arena.
func NewSliceHost(capacity int) *SliceHost {
	return &SliceHost{buf: make([]byte, 0, max(capacity, 0))}
}

// Extend grows the store by n bytes. New bytes are zero.
func (h *SliceHost) Extend(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if n > cap(h.buf)-len(h.buf) {
		return nil, ErrHostExhausted
	}
	h.buf = h.buf[:len(h.buf)+n]
	return h.buf, nil
}

// Len returns the current store size.
func (h *SliceHost) Len() int {
	return len(h.buf)
}

// Cap returns the reserved capacity.
func (h *SliceHost) Cap() int {
	return cap(h.buf)
}
