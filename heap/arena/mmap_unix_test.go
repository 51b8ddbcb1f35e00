//go:build unix

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmapHostCommitsOnDemand(t *testing.T) {
	h, err := NewMmapHost(1 << 20)
	require.NoError(t, err)
	defer func() { require.NoError(t, h.Close()) }()

	assert.GreaterOrEqual(t, h.Reserved(), 1<<20)
	assert.Equal(t, 0, h.Len())

	buf, err := h.Extend(100)
	require.NoError(t, err)
	require.Len(t, buf, 100)
	buf[99] = 0x5A

	// Crosses a page boundary: the new page must be writable.
	buf, err = h.Extend(3 * h.pageSize)
	require.NoError(t, err)
	buf[len(buf)-1] = 0xA5
	assert.Equal(t, byte(0x5A), buf[99])
	assert.Equal(t, byte(0), buf[100], "fresh pages are zeroed")
}

func TestMmapHostExhausted(t *testing.T) {
	h, err := NewMmapHost(1)
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Extend(h.Reserved())
	require.NoError(t, err)
	_, err = h.Extend(1)
	assert.ErrorIs(t, err, ErrHostExhausted)
	assert.Equal(t, h.Reserved(), h.Len())
}

func TestMmapHostArena(t *testing.T) {
	h, err := NewMmapHost(64 << 10)
	require.NoError(t, err)
	defer h.Close()

	a, err := New(h)
	require.NoError(t, err)
	first, err := a.Grow(24)
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	p := &a.Bytes()[0]

	_, err = a.Grow(8192)
	require.NoError(t, err)
	assert.Same(t, p, &a.Bytes()[0], "mapping must not relocate")
}

func TestMmapHostClosed(t *testing.T) {
	h, err := NewMmapHost(4096)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	require.NoError(t, h.Close(), "double close is a no-op")

	_, err = h.Extend(8)
	assert.ErrorIs(t, err, ErrClosed)
}
