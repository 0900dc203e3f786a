package tracking

import (
	"sort"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

// Edit and Range are aliases for the buffer types, for convenience.
type (
	Edit  = buffer.Edit
	Range = buffer.Range
)

// RemapOffset maps a single position through an ascending, non-overlapping
// edit list. For bulk work use a Remapper.
func RemapOffset(offset int, edits []Edit) int {
	delta := 0
	for _, e := range edits {
		if offset < e.Range.Start {
			break
		}
		if offset < e.Range.End {
			// Inside a removed range: collapse to its start.
			return e.Range.Start + delta
		}
		delta += e.Delta()
	}
	return offset + delta
}

// RemapRange maps both ends of a range, keeping Start <= End.
func RemapRange(r Range, edits []Edit) Range {
	start := RemapOffset(r.Start, edits)
	end := RemapOffset(r.End, edits)
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Remapper streams ascending positions through an edit list in one pass.
// Positions must be fed in non-decreasing order to stay O(n + m); an
// out-of-order position falls back to a full scan of the edit list.
type Remapper struct {
	edits []Edit
	idx   int
	delta int
	last  int
}

// NewRemapper creates a remapper over an ascending edit list.
func NewRemapper(edits []Edit) *Remapper {
	return &Remapper{edits: edits, last: -1 << 62}
}

// Next remaps the next position. Positions must arrive in non-decreasing
// order.
func (m *Remapper) Next(offset int) int {
	if offset < m.last {
		// Out-of-order caller; fall back to a fresh scan for correctness.
		return RemapOffset(offset, m.edits)
	}
	m.last = offset
	for m.idx < len(m.edits) && m.edits[m.idx].Range.End <= offset {
		m.delta += m.edits[m.idx].Delta()
		m.idx++
	}
	if m.idx < len(m.edits) {
		e := m.edits[m.idx]
		if e.Range.Start <= offset && offset < e.Range.End {
			return e.Range.Start + m.delta
		}
	}
	return offset + m.delta
}

// RemapAll remaps a set of positions (any order) in O(n log n + m) by
// sorting an index first.
func RemapAll(positions []int, edits []Edit) []int {
	idx := make([]int, len(positions))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return positions[idx[a]] < positions[idx[b]]
	})
	out := make([]int, len(positions))
	m := NewRemapper(edits)
	for _, i := range idx {
		out[i] = m.Next(positions[i])
	}
	return out
}

// TotalDelta returns the overall length change of an edit batch.
func TotalDelta(edits []Edit) int {
	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}
	return delta
}
