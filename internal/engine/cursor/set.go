package cursor

import "sort"

// Set manages the selections of one document. Selections are kept sorted
// left to right and non-overlapping; any two that touch are merged. The
// primary selection is the most recently added one.
type Set struct {
	selections []Selection
	nextID     ID
}

// NewSet creates a set with a single caret at offset.
func NewSet(offset int) *Set {
	s := &Set{}
	s.selections = []Selection{s.stamp(NewCaret(offset))}
	return s
}

// NewSetFrom creates a set from a slice of selections, stamping IDs in
// slice order and normalizing.
func NewSetFrom(sels []Selection) *Set {
	if len(sels) == 0 {
		return NewSet(0)
	}
	s := &Set{selections: make([]Selection, len(sels))}
	for i, sel := range sels {
		s.selections[i] = s.stamp(sel)
	}
	s.normalize()
	return s
}

func (s *Set) stamp(sel Selection) Selection {
	s.nextID++
	sel.ID = s.nextID
	return sel
}

// Count returns the number of selections.
func (s *Set) Count() int { return len(s.selections) }

// All returns a copy of all selections in left-to-right order.
func (s *Set) All() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Get returns the selection at index, or a zero selection if out of range.
func (s *Set) Get(index int) Selection {
	if index < 0 || index >= len(s.selections) {
		return Selection{}
	}
	return s.selections[index]
}

// Primary returns the most recently added selection.
func (s *Set) Primary() Selection {
	best := s.selections[0]
	for _, sel := range s.selections[1:] {
		if sel.ID > best.ID {
			best = sel
		}
	}
	return best
}

// Add inserts a new selection, merging it with any it touches, and makes
// it primary.
func (s *Set) Add(sel Selection) {
	s.selections = append(s.selections, s.stamp(sel))
	s.normalize()
}

// AddCaretAt inserts a caret at offset.
func (s *Set) AddCaretAt(offset int) {
	s.Add(NewCaret(offset))
}

// Set replaces all selections with one.
func (s *Set) Set(sel Selection) {
	s.selections = []Selection{s.stamp(sel)}
}

// SetAll replaces all selections.
func (s *Set) SetAll(sels []Selection) {
	if len(sels) == 0 {
		s.Set(NewCaret(0))
		return
	}
	s.selections = s.selections[:0]
	for _, sel := range sels {
		s.selections = append(s.selections, s.stamp(sel))
	}
	s.normalize()
}

// CollapseAll collapses every selection to a caret at its head.
func (s *Set) CollapseAll() {
	for i, sel := range s.selections {
		s.selections[i] = sel.Collapse()
	}
	s.normalize()
}

// KeepPrimary drops every selection except the primary.
func (s *Set) KeepPrimary() {
	if len(s.selections) <= 1 {
		return
	}
	s.selections = []Selection{s.Primary()}
}

// Map applies f to every selection and re-normalizes.
func (s *Set) Map(f func(Selection) Selection) {
	for i, sel := range s.selections {
		s.selections[i] = f(sel)
	}
	s.normalize()
}

// Clamp clamps all selections to [0, maxOffset].
func (s *Set) Clamp(maxOffset int) {
	for i, sel := range s.selections {
		s.selections[i] = sel.Clamp(maxOffset)
	}
	s.normalize()
}

// Ranges returns the forward range of every selection, left to right.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.selections))
	for i, sel := range s.selections {
		out[i] = sel.Range()
	}
	return out
}

// HasExtent reports whether any selection is more than a caret.
func (s *Set) HasExtent() bool {
	for _, sel := range s.selections {
		if !sel.IsCaret() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, preserving IDs and the ID counter.
func (s *Set) Clone() *Set {
	c := &Set{
		selections: make([]Selection, len(s.selections)),
		nextID:     s.nextID,
	}
	copy(c.selections, s.selections)
	return c
}

// Equal reports whether two sets hold the same selections in the same
// order, ignoring IDs.
func (s *Set) Equal(other *Set) bool {
	if other == nil || len(s.selections) != len(other.selections) {
		return false
	}
	for i, sel := range s.selections {
		o := other.selections[i]
		if sel.Anchor != o.Anchor || sel.Head != o.Head {
			return false
		}
	}
	return true
}

// normalize sorts selections left to right and merges any that touch.
// Two carets at the same offset also collapse into one.
func (s *Set) normalize() {
	if len(s.selections) <= 1 {
		return
	}
	sort.SliceStable(s.selections, func(i, j int) bool {
		si, sj := s.selections[i].Start(), s.selections[j].Start()
		if si != sj {
			return si < sj
		}
		return s.selections[i].End() < s.selections[j].End()
	})
	merged := s.selections[:1]
	for _, sel := range s.selections[1:] {
		last := &merged[len(merged)-1]
		if last.Touches(sel) {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	s.selections = merged
}
