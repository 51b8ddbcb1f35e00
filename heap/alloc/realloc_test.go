package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/arena"
)

func TestReallocNilAllocates(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustRealloc(t, a, Nil, 40)
	assert.NotEqual(t, Nil, p)
	assert.GreaterOrEqual(t, a.UsableSize(p), 40)
}

func TestReallocZeroFrees(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 16)

	np := mustRealloc(t, a, p, 0)
	assert.Equal(t, Nil, np)
	requireBlocks(t, a, block{ptr: 32, size: 24})
	assert.Equal(t, 1, a.Stats().FreeCalls)
}

func TestReallocNegativeSize(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 16)
	_, err := a.Realloc(p, -5)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReallocShrinkKeepsPointer(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 100)
	fill(a, p, 100, 3)

	assert.Equal(t, p, mustRealloc(t, a, p, 10))
	assert.Equal(t, 104, a.UsableSize(p), "shrinking does not give bytes back")
	assert.Equal(t, p, mustRealloc(t, a, p, 104))
	requirePattern(t, a, p, 100, 3)
	assert.Equal(t, 2, a.Stats().ReallocShrink)
}

func TestReallocGrowsIntoArenaTail(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 16)
	fill(a, p, 16, 9)

	np := mustRealloc(t, a, p, 1000)
	assert.Equal(t, p, np, "last block grows in place")
	requirePattern(t, a, np, 16, 9)
	// 1000 bytes adjusted to 1008 plus the 24-byte bias.
	requireBlocks(t, a, block{ptr: 32, size: 1032, allocated: true})
	assert.Equal(t, 1064, a.HeapSize())
	assert.Equal(t, 1, a.Stats().ReallocInPlace)
}

func TestReallocMovesWhenBlocked(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 16)
	filler := mustAlloc(t, a, 16)
	fill(a, p, 16, 42)

	np := mustRealloc(t, a, p, 100)
	assert.Equal(t, Ptr(80), np)
	requirePattern(t, a, np, 16, 42)
	requireBlocks(t, a,
		block{ptr: 32, size: 24},
		block{ptr: filler, size: 24, allocated: true},
		block{ptr: 80, size: 112, allocated: true},
	)

	s := a.Stats()
	assert.Equal(t, 1, s.ReallocMoved)
	assert.Equal(t, 3, s.AllocCalls, "the move allocates through Alloc")
}

func TestReallocAbsorbsFreedSuccessor(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 100)
	big := mustAlloc(t, a, 2000)
	mustAlloc(t, a, 16)
	require.Equal(t, a.Blocks()[0].End(), big, "the large block sits right behind p")
	fill(a, p, 100, 7)
	a.Free(big)
	assertInvariants(t, a)

	np := mustRealloc(t, a, p, 1000)
	assert.Equal(t, p, np)
	assert.GreaterOrEqual(t, a.UsableSize(np), 1000)
	requirePattern(t, a, np, 100, 7)

	s := a.Stats()
	assert.Equal(t, 1, s.ReallocInPlace)
	assert.Zero(t, s.ReallocMoved)
}

func TestReallocMovesPastFiller(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 100)
	filler := mustAlloc(t, a, 16)
	require.Equal(t, a.Blocks()[0].End(), filler, "the filler sits right behind p")
	fill(a, p, 100, 200)

	np := mustRealloc(t, a, p, 1000)
	assert.NotEqual(t, p, np)
	assert.GreaterOrEqual(t, a.UsableSize(np), 1000)
	requirePattern(t, a, np, 100, 200)

	blocks := a.Blocks()
	require.NotEmpty(t, blocks)
	assert.Equal(t, p, blocks[0].Ptr)
	assert.False(t, blocks[0].Allocated, "the old block is released")
	assert.Equal(t, 1, a.Stats().ReallocMoved)
}

// setupLockedSuccessor leaves a 136-byte block at 32 followed by a locked
// 96-byte free block at 168 and an allocated guard at 264.
func setupLockedSuccessor(t *testing.T, cfg *Config) *Allocator {
	t.Helper()
	a := newTestAllocator(t, cfg)

	p := mustAlloc(t, a, 16)
	b := mustAlloc(t, a, 200)
	guard := mustAlloc(t, a, 16)
	require.Equal(t, Ptr(32), p)
	require.Equal(t, Ptr(56), b)
	require.Equal(t, Ptr(264), guard)
	a.Free(b)
	fill(a, p, 16, 1)

	np := mustRealloc(t, a, p, 100)
	require.Equal(t, p, np, "grows into the freed neighbor")
	requirePattern(t, a, np, 16, 1)
	return a
}

func TestReallocLocksSmallSuccessor(t *testing.T) {
	a := setupLockedSuccessor(t, nil)

	blocks := a.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, BlockInfo{Ptr: 32, Size: 136, Allocated: true}, blocks[0])
	assert.Equal(t, BlockInfo{Ptr: 168, Size: 96, Locked: true}, blocks[1])
	assert.Equal(t, 1, a.Stats().LockCount)

	// find-fit skips the locked block and grows the arena instead.
	c := mustAlloc(t, a, 40)
	assert.Equal(t, Ptr(288), c)
	assert.True(t, a.Blocks()[1].Locked)
}

func TestReallocLockedSuccessorServesNextGrowth(t *testing.T) {
	a := setupLockedSuccessor(t, nil)

	np := mustRealloc(t, a, 32, 200)
	assert.Equal(t, Ptr(32), np)
	requirePattern(t, a, np, 16, 1)
	requireBlocks(t, a,
		block{ptr: 32, size: 232, allocated: true},
		block{ptr: 264, size: 24, allocated: true},
	)
}

func TestFreeReleasesLock(t *testing.T) {
	a := setupLockedSuccessor(t, nil)
	mustAlloc(t, a, 40) // 288

	a.Free(32)
	assertInvariants(t, a)
	blocks := a.Blocks()
	assert.Equal(t, BlockInfo{Ptr: 32, Size: 232}, blocks[0], "merged with the unlocked neighbor")

	// 184 bytes of slack exceed the spare threshold: pre-split.
	d := mustAlloc(t, a, 40)
	assert.Equal(t, Ptr(216), d)
}

func TestReallocWithoutLocking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockAfterRealloc = false
	a := setupLockedSuccessor(t, &cfg)

	assert.False(t, a.Blocks()[1].Locked)
	c := mustAlloc(t, a, 40)
	assert.Equal(t, Ptr(168), c, "unlocked remainder is reused")
	assert.Zero(t, a.Stats().LockCount)
}

func TestReallocOutOfMemoryKeepsOriginal(t *testing.T) {
	a, err := NewInMemory(64, nil)
	require.NoError(t, err)
	p := mustAlloc(t, a, 16)
	fill(a, p, 16, 77)

	np, err := a.Realloc(p, 100)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.ErrorIs(t, err, arena.ErrHostExhausted)
	assert.Equal(t, Nil, np)

	assertInvariants(t, a)
	requirePattern(t, a, p, 16, 77)
	requireBlocks(t, a, block{ptr: 32, size: 24, allocated: true})
}
