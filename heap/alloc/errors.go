package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that the arena could not be extended.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidArgument indicates a negative or unrepresentable size, or a
	// bad configuration value.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrInitialized indicates Init was called twice.
	ErrInitialized = errors.New("alloc: already initialized")

	// ErrNotInitialized indicates an operation before Init.
	ErrNotInitialized = errors.New("alloc: not initialized")

	// ErrHeapCorrupt is returned by Check when Validate reports violations.
	ErrHeapCorrupt = errors.New("alloc: heap corrupt")
)
