package buffer

import (
	"fmt"
	"sort"
)

// Edit replaces the text in Range with NewText. An empty range is an
// insertion, empty NewText is a deletion.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an edit that inserts text at an offset.
func NewInsert(offset int, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an edit that deletes [start, end).
func NewDelete(start, end int) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// NewReplace creates an edit that replaces [start, end) with text.
func NewReplace(start, end int, text string) Edit {
	return Edit{Range: Range{Start: start, End: end}, NewText: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// IsNoOp returns true if the edit changes nothing.
func (e Edit) IsNoOp() bool { return e.Range.IsEmpty() && e.NewText == "" }

// Delta returns the change in document length caused by this edit.
func (e Edit) Delta() int { return len(e.NewText) - e.Range.Len() }

// NewRange returns the range the replacement text occupies, in
// post-edit coordinates, assuming no earlier edits shifted it.
func (e Edit) NewRange() Range {
	return Range{Start: e.Range.Start, End: e.Range.Start + len(e.NewText)}
}

// SortEdits orders edits ascending by start offset. A committed edit batch
// is always handed to the tracker in this order.
func SortEdits(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start < edits[j].Range.Start
	})
}

// ValidateEdits checks that edits are sorted ascending, have valid ranges
// within length, and do not overlap.
func ValidateEdits(edits []Edit, length int) error {
	prevEnd := -1
	for _, e := range edits {
		if !e.Range.IsValid() || e.Range.Start < 0 || e.Range.End > length {
			if e.Range.IsEmpty() {
				return ErrOffsetOutOfRange
			}
			return ErrRangeInvalid
		}
		if e.Range.Start < prevEnd {
			return ErrEditsOverlap
		}
		prevEnd = e.Range.End
	}
	return nil
}
