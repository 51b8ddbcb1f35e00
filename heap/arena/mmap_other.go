//go:build !unix

package arena

// MmapHost is not available on this platform.
type MmapHost struct{}

// NewMmapHost always fails with ErrUnsupported on this platform.
func NewMmapHost(int) (*MmapHost, error) {
	return nil, ErrUnsupported
}

// Extend always fails with ErrUnsupported.
func (*MmapHost) Extend(int) ([]byte, error) { return nil, ErrUnsupported }

// Len always returns zero.
func (*MmapHost) Len() int { return 0 }

// Reserved always returns zero.
func (*MmapHost) Reserved() int { return 0 }

// Close is a no-op.
func (*MmapHost) Close() error { return nil }
