package alloc

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/heapkit/internal/format"
)

const (
	// DefaultSpareThreshold is the slack above which a fitting free block is
	// pre-split so the allocation is carved from its high end.
	DefaultSpareThreshold = 128

	// DefaultReallocBias is added to a growing Realloc request so the next
	// small growth can also happen in place.
	DefaultReallocBias = 24
)

// Config tunes the allocator. The zero value is not valid; start from
// DefaultConfig.
type Config struct {
	// ChunkSize is the minimum number of bytes the arena grows by.
	ChunkSize int `toml:"chunk_size"`

	// SpareThreshold: a fit with more slack than this is pre-split.
	SpareThreshold int `toml:"spare_threshold"`

	// ReallocBias is extra room requested when Realloc grows a block.
	// Must be a multiple of the alignment.
	ReallocBias int `toml:"realloc_bias"`

	// LockAfterRealloc locks a small free successor left behind a growing
	// Realloc so unrelated allocations do not take it.
	LockAfterRealloc bool `toml:"lock_after_realloc"`

	// ClassBounds are the exclusive upper bounds of the bounded size
	// classes, ascending. One unbounded class follows the last bound.
	ClassBounds []int `toml:"class_bounds"`

	// Logger receives growth and out-of-memory events. Nil discards them
	// unless HEAPKIT_LOG_ALLOC is set.
	Logger *slog.Logger `toml:"-"`
}

// DefaultConfig returns the reference tuning: 16-byte chunks, 128-byte spare
// threshold, 24-byte realloc bias, and the 15 reference size classes.
func DefaultConfig() Config {
	return Config{
		ChunkSize:        format.DefaultChunkSize,
		SpareThreshold:   DefaultSpareThreshold,
		ReallocBias:      DefaultReallocBias,
		LockAfterRealloc: true,
		ClassBounds:      slices.Clone(ReferenceClassBounds),
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidArgument.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 || int64(c.ChunkSize) > format.MaxBlockSize {
		return fmt.Errorf("%w: chunk_size %d", ErrInvalidArgument, c.ChunkSize)
	}
	if c.SpareThreshold < 0 {
		return fmt.Errorf("%w: spare_threshold %d", ErrInvalidArgument, c.SpareThreshold)
	}
	if c.ReallocBias < 0 || c.ReallocBias%format.Alignment != 0 {
		return fmt.Errorf("%w: realloc_bias %d must be a non-negative multiple of %d",
			ErrInvalidArgument, c.ReallocBias, format.Alignment)
	}
	if len(c.ClassBounds) == 0 {
		return fmt.Errorf("%w: class_bounds is empty", ErrInvalidArgument)
	}
	if c.ClassBounds[0] <= format.MinBlockSize {
		return fmt.Errorf("%w: first class bound %d must exceed the minimum block size %d",
			ErrInvalidArgument, c.ClassBounds[0], format.MinBlockSize)
	}
	for i := 1; i < len(c.ClassBounds); i++ {
		if c.ClassBounds[i] <= c.ClassBounds[i-1] {
			return fmt.Errorf("%w: class_bounds not strictly ascending at index %d",
				ErrInvalidArgument, i)
		}
	}
	return nil
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys missing from the
// file keep their defaults.
//
//	chunk_size = 4096
//	spare_threshold = 128
//	realloc_bias = 24
//	lock_after_realloc = true
//	class_bounds = [32, 64, 128, 256, 512, 1024, 2048, 4096]
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("alloc: decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown config key %q in %s",
			ErrInvalidArgument, undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
