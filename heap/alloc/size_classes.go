package alloc

import (
	"fmt"
	"math"
	"sort"
)

// ReferenceClassBounds are the exclusive upper bounds of the default size
// classes. Small classes are fine-grained for common small requests; large
// ones are coarse because few huge blocks exist.
var ReferenceClassBounds = []int{
	32, 64, 128, 256, 512, 1024, 2048, 4096, 8192,
	12000, 15000, 19000, 25000, 32000,
}

// SizeClassConfig describes a generated class table: linear steps for small
// sizes, then geometric growth up to MediumMax. Sizes at or above MediumMax
// share the unbounded class.
type SizeClassConfig struct {
	Name string

	SmallMin       int // first class starts here
	SmallMax       int // end of the linear phase
	SmallIncrement int // linear step

	MediumMax    int     // last bound
	GrowthFactor float64 // geometric step, > 1
}

// Predefined generated tables.
var (
	// ClassesFine: 8-byte steps up to 256, then x1.5 up to 32 KiB.
	ClassesFine = SizeClassConfig{
		Name:           "fine",
		SmallMin:       24,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      32768,
		GrowthFactor:   1.5,
	}

	// ClassesCoarse: 32-byte steps up to 128, then doubling up to 32 KiB.
	ClassesCoarse = SizeClassConfig{
		Name:           "coarse",
		SmallMin:       32,
		SmallMax:       128,
		SmallIncrement: 32,
		MediumMax:      32768,
		GrowthFactor:   2.0,
	}
)

// GenerateClassBounds computes exclusive upper bounds from c.
func GenerateClassBounds(c SizeClassConfig) []int {
	bounds := make([]int, 0, 64)

	// Phase 1: linear increments
	for size := c.SmallMin; size < c.SmallMax; size += c.SmallIncrement {
		bounds = append(bounds, size+c.SmallIncrement)
	}

	// Phase 2: geometric growth
	size := c.SmallMax
	if n := len(bounds); n > 0 {
		size = bounds[n-1]
	}
	for size < c.MediumMax {
		next := int(math.Ceil(float64(size) * c.GrowthFactor))
		next = (next + 7) &^ 7
		if next <= size {
			next = size + 8
		}
		next = min(next, c.MediumMax)
		bounds = append(bounds, next)
		size = next
	}
	return bounds
}

// ClassBoundsPreset returns the bounds of a named table: "reference",
// "fine", or "coarse".
func ClassBoundsPreset(name string) ([]int, error) {
	switch name {
	case "", "reference":
		return append([]int(nil), ReferenceClassBounds...), nil
	case ClassesFine.Name:
		return GenerateClassBounds(ClassesFine), nil
	case ClassesCoarse.Name:
		return GenerateClassBounds(ClassesCoarse), nil
	}
	return nil, fmt.Errorf("%w: unknown size class preset %q", ErrInvalidArgument, name)
}

// sizeClassTable maps block sizes to free-list indexes.
type sizeClassTable struct {
	bounds []int
}

func newSizeClassTable(bounds []int) *sizeClassTable {
	return &sizeClassTable{bounds: append([]int(nil), bounds...)}
}

// classOf returns the class holding size: the first bound strictly greater
// than size, or the unbounded class.
func (t *sizeClassTable) classOf(size int) int {
	return sort.Search(len(t.bounds), func(i int) bool { return size < t.bounds[i] })
}

// numClasses counts the bounded classes plus the unbounded one.
func (t *sizeClassTable) numClasses() int {
	return len(t.bounds) + 1
}

// rangeOf returns the [lo, hi) size range of class c; hi is -1 for the
// unbounded class.
func (t *sizeClassTable) rangeOf(c int) (lo, hi int) {
	if c > 0 {
		lo = t.bounds[c-1]
	}
	if c < len(t.bounds) {
		return lo, t.bounds[c]
	}
	return lo, -1
}

// SizeClass describes one free-list class.
type SizeClass struct {
	Index int `json:"index"`
	Min   int `json:"min"` // inclusive
	Max   int `json:"max"` // exclusive, -1 when unbounded
}

// SizeClasses lists the classes of a bounds table in ascending order.
func SizeClasses(bounds []int) []SizeClass {
	t := newSizeClassTable(bounds)
	out := make([]SizeClass, t.numClasses())
	for c := range out {
		lo, hi := t.rangeOf(c)
		out[c] = SizeClass{Index: c, Min: lo, Max: hi}
	}
	return out
}
