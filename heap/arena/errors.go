package arena

import "errors"

var (
	// ErrHostExhausted indicates the host has no reserved capacity left.
	ErrHostExhausted = errors.New("arena: host capacity exhausted")

	// ErrInvalidSize indicates a non-positive growth request.
	ErrInvalidSize = errors.New("arena: grow size must be positive")

	// ErrUnsupported indicates the host is not available on this platform.
	ErrUnsupported = errors.New("arena: host not supported on this platform")

	// ErrHostNotEmpty indicates a host that already holds data was handed to New.
	ErrHostNotEmpty = errors.New("arena: host is not empty")

	// ErrClosed indicates use of a host after Close.
	ErrClosed = errors.New("arena: host closed")
)
