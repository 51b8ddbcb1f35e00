package arena

import "fmt"

// Host supplies the memory behind an Arena.
type Host interface {
	// Extend grows the backing store by n bytes and returns the whole store.
	// Memory returned by earlier calls must not move. On failure the store
	// is left unchanged.
	Extend(n int) ([]byte, error)

	// Len returns the current size of the backing store in bytes.
	Len() int
}

// Arena is the growable byte region managed by one allocator.
type Arena struct {
	host Host
	buf  []byte

	growCalls int
}

// New wraps host in an Arena. The host must be empty: an arena is formatted
// from offset zero by its allocator.
func New(host Host) (*Arena, error) {
	if n := host.Len(); n != 0 {
		return nil, fmt.Errorf("%w (%d bytes in use)", ErrHostNotEmpty, n)
	}
	return &Arena{host: host}, nil
}

// Grow extends the arena by n bytes and returns the offset where the new
// region begins (the previous size). Growth is atomic: on error nothing
// changes.
func (a *Arena) Grow(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidSize
	}
	base := len(a.buf)
	buf, err := a.host.Extend(n)
	if err != nil {
		return 0, fmt.Errorf("arena: grow %d bytes at offset %d: %w", n, base, err)
	}
	a.buf = buf
	a.growCalls++
	return base, nil
}

// Size returns the number of bytes in the arena.
func (a *Arena) Size() int {
	return len(a.buf)
}

// Bytes returns the arena contents. The slice is valid until the next Grow;
// the underlying memory itself never moves.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// GrowCalls returns how many successful Grow calls the arena has served.
func (a *Arena) GrowCalls() int {
	return a.growCalls
}
