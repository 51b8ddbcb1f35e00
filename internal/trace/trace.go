// Package trace reads, writes, generates, and replays allocator traces in the
// malloc-lab driver format:
//
//	<suggested heap size>
//	<number of ids>
//	<number of ops>
//	<weight>
//	a <id> <bytes>
//	r <id> <bytes>
//	f <id>
//
// Ids name logical blocks; an id is allocated, possibly reallocated, and
// freed. Replay drives an allocator through the ops and checks that every
// payload survives untouched.
package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates a malformed trace file.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrBadOp indicates an operation on an id in the wrong state, such as
	// freeing an id that is not live.
	ErrBadOp = errors.New("trace: invalid operation")

	// ErrCorrupted indicates that replay found a damaged payload, a
	// misaligned or overlapping block, or a failed heap check.
	ErrCorrupted = errors.New("trace: heap corrupted")
)

// OpKind is the kind of a trace operation.
type OpKind byte

const (
	OpAlloc   OpKind = 'a'
	OpRealloc OpKind = 'r'
	OpFree    OpKind = 'f'
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpRealloc:
		return "realloc"
	case OpFree:
		return "free"
	}
	return fmt.Sprintf("OpKind(%q)", byte(k))
}

// Op is one trace line. Size is unused for OpFree.
type Op struct {
	Kind OpKind
	ID   int
	Size int
}

func (o Op) String() string {
	if o.Kind == OpFree {
		return fmt.Sprintf("%c %d", byte(o.Kind), o.ID)
	}
	return fmt.Sprintf("%c %d %d", byte(o.Kind), o.ID, o.Size)
}

// Trace is a parsed trace file.
type Trace struct {
	Name string

	SuggestedHeapSize int
	NumIDs            int
	Weight            int

	Ops []Op
}
