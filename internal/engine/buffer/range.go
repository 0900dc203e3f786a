package buffer

import (
	"fmt"

	"github.com/kelleyvanevert/golive/internal/engine/rope"
)

// Point is a line/column position, re-exported from the rope.
type Point = rope.Point

// Range is a byte range in the buffer. Start is inclusive, End exclusive.
type Range struct {
	Start int
	End   int
}

// NewRange creates a range from start and end offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int { return r.End - r.Start }

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// IsValid returns true if Start <= End.
func (r Range) IsValid() bool { return r.Start <= r.End }

// Contains returns true if the offset is within [Start, End).
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if the two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Touches returns true if the ranges overlap or are adjacent.
func (r Range) Touches(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Union returns the smallest range containing both.
func (r Range) Union(other Range) Range {
	return Range{
		Start: min(r.Start, other.Start),
		End:   max(r.End, other.End),
	}
}

// Intersect returns the overlap of the two ranges, or an empty range at
// the later start if they are disjoint.
func (r Range) Intersect(other Range) Range {
	start := max(r.Start, other.Start)
	end := min(r.End, other.End)
	if start >= end {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: end}
}

// Shift returns the range moved by delta.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}
