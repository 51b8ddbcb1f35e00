package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func kindsOf(vs []Violation) []ViolationKind {
	out := make([]ViolationKind, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

func TestValidateHealthyHeap(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 300)
	mustAlloc(t, a, 20)
	a.Free(p)

	assert.Empty(t, a.Validate())
	assert.NoError(t, a.Check())
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(t *testing.T, a *Allocator)
		want    ViolationKind
	}{
		{
			name: "footer overwritten",
			corrupt: func(t *testing.T, a *Allocator) {
				p := mustAlloc(t, a, 16)
				format.PutU32(a.mem(), format.FooterOffset(int(p), 24), format.Pack(32, true, false))
			},
			want: HeaderFooterMismatch,
		},
		{
			name: "free block marked allocated",
			corrupt: func(t *testing.T, a *Allocator) {
				a.setSize(firstBlock, 24, true)
			},
			want: ListedAllocated,
		},
		{
			name: "free block dropped from its list",
			corrupt: func(t *testing.T, a *Allocator) {
				clear(a.heads)
			},
			want: Unlisted,
		},
		{
			name: "adjacent free blocks",
			corrupt: func(t *testing.T, a *Allocator) {
				p1 := mustAlloc(t, a, 16)
				p2 := mustAlloc(t, a, 16)
				mustAlloc(t, a, 16)
				a.Free(p1)
				a.setSize(p2, 24, false)
				a.insert(p2)
			},
			want: AdjacentFree,
		},
		{
			name: "lock on allocated block",
			corrupt: func(t *testing.T, a *Allocator) {
				p := mustAlloc(t, a, 16)
				a.setLock(p, true)
			},
			want: LockOnAllocated,
		},
		{
			name: "epilogue cleared",
			corrupt: func(t *testing.T, a *Allocator) {
				format.PutU32(a.mem(), a.HeapSize()-format.WordSize, 0)
			},
			want: BadEpilogue,
		},
		{
			name: "prologue overwritten",
			corrupt: func(t *testing.T, a *Allocator) {
				format.PutU32(a.mem(), format.PrologueOffset-format.WordSize, format.Pack(16, true, false))
			},
			want: BadPrologue,
		},
		{
			name: "list out of order",
			corrupt: func(t *testing.T, a *Allocator) {
				p1 := mustAlloc(t, a, 40)
				mustAlloc(t, a, 16)
				p2 := mustAlloc(t, a, 48)
				mustAlloc(t, a, 16)
				a.Free(p1)
				a.Free(p2)
				// Both 48 and 56 byte blocks live in class 1; swap them.
				c := a.classes.classOf(48)
				first, second := a.heads[c], a.nextFree(a.heads[c])
				require.NotEqual(t, Nil, second)
				a.heads[c] = second
				a.setPrevFree(second, Nil)
				a.setNextFree(second, first)
				a.setPrevFree(first, second)
				a.setNextFree(first, Nil)
			},
			want: Unsorted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAllocator(t, nil)
			tt.corrupt(t, a)

			vs := a.Validate()
			require.NotEmpty(t, vs)
			assert.Contains(t, kindsOf(vs), tt.want)

			err := a.Check()
			require.ErrorIs(t, err, ErrHeapCorrupt)
		})
	}
}

func TestViolationKindString(t *testing.T) {
	assert.Equal(t, "adjacent free blocks", AdjacentFree.String())
	assert.Equal(t, "ViolationKind(99)", ViolationKind(99).String())

	v := Violation{Kind: Unlisted, Ptr: 32, Detail: "size 24"}
	assert.Equal(t, "free block not listed at 32: size 24", v.Error())
}

func TestBlocksStopsAtEpilogue(t *testing.T) {
	a := newTestAllocator(t, nil)
	mustAlloc(t, a, 100)

	blocks := a.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, blocks[0].End(), blocks[1].Ptr)
	assert.Equal(t, a.HeapSize(), int(blocks[1].End()))
	assert.Equal(t, 104, blocks[0].PayloadSize())
}
