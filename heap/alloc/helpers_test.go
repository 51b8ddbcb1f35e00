package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestAllocator returns an initialized allocator over a 1 MiB SliceHost.
func newTestAllocator(t testing.TB, cfg *Config) *Allocator {
	t.Helper()
	a, err := NewInMemory(1<<20, cfg)
	require.NoError(t, err)
	assertInvariants(t, a)
	return a
}

// assertInvariants fails the test if Validate reports anything.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	vs := a.Validate()
	if len(vs) > 0 {
		for _, v := range vs {
			t.Logf("violation: %v", v)
		}
		t.Fatalf("heap invariants violated (%d)", len(vs))
	}
}

func mustAlloc(t testing.TB, a *Allocator, size int) Ptr {
	t.Helper()
	p, err := a.Alloc(size)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	assertInvariants(t, a)
	return p
}

func mustRealloc(t testing.TB, a *Allocator, p Ptr, size int) Ptr {
	t.Helper()
	np, err := a.Realloc(p, size)
	require.NoError(t, err)
	assertInvariants(t, a)
	return np
}

// fill writes a recognizable pattern derived from seed into p's first n bytes.
func fill(a *Allocator, p Ptr, n int, seed byte) {
	buf := a.Payload(p)
	for i := range n {
		buf[i] = seed + byte(i)
	}
}

func requirePattern(t testing.TB, a *Allocator, p Ptr, n int, seed byte) {
	t.Helper()
	buf := a.Payload(p)
	require.GreaterOrEqual(t, len(buf), n)
	for i := range n {
		if buf[i] != seed+byte(i) {
			t.Fatalf("payload of %d corrupted at byte %d: got %#x want %#x", p, i, buf[i], seed+byte(i))
		}
	}
}

// block is a compact expectation for Blocks().
type block struct {
	ptr       Ptr
	size      int
	allocated bool
}

func requireBlocks(t testing.TB, a *Allocator, want ...block) {
	t.Helper()
	got := a.Blocks()
	gotCompact := make([]block, len(got))
	for i, b := range got {
		gotCompact[i] = block{ptr: b.Ptr, size: b.Size, allocated: b.Allocated}
	}
	require.Equal(t, want, gotCompact)
}
