package cursor

import (
	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/engine/tracking"
)

// Edit is an alias for buffer.Edit, for convenience.
type Edit = buffer.Edit

// ApplyEdits remaps every selection through an ascending edit batch and
// merges any selections the batch pushed together. Anchors and heads
// follow the tracker rules: positions before an edit stay put, positions
// at or past its end shift by the delta, positions inside a removed range
// collapse to its start.
//
// A caret whose own insertion landed at its offset ends up after the
// inserted text, which is what typing expects.
func (s *Set) ApplyEdits(edits []Edit) {
	if len(edits) == 0 {
		return
	}
	for i, sel := range s.selections {
		sel.Anchor = tracking.RemapOffset(sel.Anchor, edits)
		sel.Head = tracking.RemapOffset(sel.Head, edits)
		sel.DesiredColumn = -1
		s.selections[i] = sel
	}
	s.normalize()
}

// RemapRanges maps arbitrary ranges through the same rules; used for
// restoring saved selections after external edits.
func RemapRanges(ranges []Range, edits []Edit) []Range {
	out := make([]Range, len(ranges))
	for i, r := range ranges {
		out[i] = tracking.RemapRange(r, edits)
	}
	return out
}
