package cursor

import (
	"errors"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

// ErrOverlappingEdits reports that two cursors computed edits whose
// ranges overlap. Touching selections are merged before fan-out, so this
// is an invariant check, not an expected path.
var ErrOverlappingEdits = errors.New("cursor: fanned-out edits overlap")

// EditFunc computes one selection's edit against the pre-edit snapshot.
// Returning ok == false skips the selection (it contributes no edit).
type EditFunc func(snap *buffer.Snapshot, sel Selection) (Edit, bool)

// ComputeEdits fans one logical action out across the set: f runs once
// per selection, left to right, every invocation seeing the same pre-edit
// snapshot. The collected edits come back in ascending order, ready for a
// single batched commit.
func (s *Set) ComputeEdits(snap *buffer.Snapshot, f EditFunc) ([]Edit, error) {
	edits := make([]Edit, 0, len(s.selections))
	for _, sel := range s.selections {
		e, ok := f(snap, sel)
		if !ok {
			continue
		}
		edits = append(edits, e)
	}
	buffer.SortEdits(edits)
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.Start < edits[i-1].Range.End {
			return nil, ErrOverlappingEdits
		}
	}
	return edits, nil
}

// InsertText is the EditFunc for typing and paste: each selection's
// covered range is replaced by text, so a caret inserts and an extended
// selection overtypes.
func InsertText(text string) EditFunc {
	return func(_ *buffer.Snapshot, sel Selection) (Edit, bool) {
		return buffer.NewReplace(sel.Start(), sel.End(), text), true
	}
}

// DeleteBackward removes the selection's extent, or one grapheme cluster
// before a caret. The widget placeholder is a single cluster, so it goes
// as a unit.
func DeleteBackward(snap *buffer.Snapshot, sel Selection) (Edit, bool) {
	if !sel.IsCaret() {
		return buffer.NewDelete(sel.Start(), sel.End()), true
	}
	if sel.Head == 0 {
		return Edit{}, false
	}
	return buffer.NewDelete(PrevBoundary(snap, sel.Head), sel.Head), true
}

// DeleteForward removes the selection's extent, or one grapheme cluster
// after a caret.
func DeleteForward(snap *buffer.Snapshot, sel Selection) (Edit, bool) {
	if !sel.IsCaret() {
		return buffer.NewDelete(sel.Start(), sel.End()), true
	}
	if sel.Head >= snap.Len() {
		return Edit{}, false
	}
	return buffer.NewDelete(sel.Head, NextBoundary(snap, sel.Head)), true
}
