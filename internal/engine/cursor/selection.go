package cursor

import (
	"fmt"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

// Range and Point are aliases for the buffer types, for convenience.
type (
	Range = buffer.Range
	Point = buffer.Point
)

// ID identifies a selection within its Set. IDs are assigned in insertion
// order and never reused, so a larger ID always means "added later".
type ID uint64

// Selection is an (anchor, head) pair of byte offsets. Anchor is where the
// selection started; Head is where the cursor sits and where typing
// happens. Anchor == Head is a plain cursor with no extent.
// Selection is an immutable value type.
type Selection struct {
	ID     ID
	Anchor int
	Head   int

	// DesiredColumn remembers the column a vertical motion is aiming
	// for, so moving through short lines does not lose it. Negative
	// means unset.
	DesiredColumn int
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head, DesiredColumn: -1}
}

// NewCaret creates a collapsed selection at the given offset.
func NewCaret(offset int) Selection {
	return Selection{Anchor: offset, Head: offset, DesiredColumn: -1}
}

// IsCaret reports whether the selection has no extent.
func (s Selection) IsCaret() bool { return s.Anchor == s.Head }

// Len returns the selection's extent in bytes.
func (s Selection) Len() int {
	if s.Anchor <= s.Head {
		return s.Head - s.Anchor
	}
	return s.Anchor - s.Head
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Range returns the selection as a forward range.
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// IsBackward reports whether the head is before the anchor.
func (s Selection) IsBackward() bool { return s.Head < s.Anchor }

// Extend returns a selection with the head moved to offset, keeping the
// anchor fixed.
func (s Selection) Extend(offset int) Selection {
	s.Head = offset
	return s
}

// MoveTo returns a collapsed selection at offset.
func (s Selection) MoveTo(offset int) Selection {
	s.Anchor, s.Head = offset, offset
	s.DesiredColumn = -1
	return s
}

// Collapse returns a collapsed selection at the head.
func (s Selection) Collapse() Selection {
	s.Anchor = s.Head
	return s
}

// WithRange returns a selection covering r, keeping s's sidedness: if s is
// backward the head lands on r.Start, otherwise on r.End.
func (s Selection) WithRange(r Range) Selection {
	if s.IsBackward() {
		s.Anchor, s.Head = r.End, r.Start
	} else {
		s.Anchor, s.Head = r.Start, r.End
	}
	return s
}

// Touches reports whether the selections overlap or are adjacent.
func (s Selection) Touches(other Selection) bool {
	return s.Start() <= other.End() && other.Start() <= s.End()
}

// Merge combines two touching selections. The covered range is the union;
// the sidedness comes from whichever selection has the larger ID, as does
// the surviving ID.
func (s Selection) Merge(other Selection) Selection {
	winner := s
	if other.ID > s.ID {
		winner = other
	}
	start, end := s.Start(), s.End()
	if other.Start() < start {
		start = other.Start()
	}
	if other.End() > end {
		end = other.End()
	}
	merged := winner.WithRange(Range{Start: start, End: end})
	merged.DesiredColumn = -1
	return merged
}

// Clamp returns a selection clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset int) Selection {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > maxOffset {
			return maxOffset
		}
		return v
	}
	s.Anchor = clamp(s.Anchor)
	s.Head = clamp(s.Head)
	return s
}

// SameRange reports whether two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Start() == other.Start() && s.End() == other.End()
}

func (s Selection) String() string {
	if s.IsCaret() {
		return fmt.Sprintf("Caret(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}
