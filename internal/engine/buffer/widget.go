package buffer

import (
	"sort"

	"github.com/google/uuid"
)

// WidgetRune is the sentinel character a widget occupies in the text.
// U+FFFC OBJECT REPLACEMENT CHARACTER, 3 bytes of UTF-8.
const WidgetRune = '￼'

// WidgetRuneLen is the byte length of the sentinel in the buffer.
const WidgetRuneLen = 3

// Placement anchors an external widget payload at a buffer offset.
// The payload is opaque to the editing core; only its identity and its
// display width travel with the document.
type Placement struct {
	Offset  int
	Payload uuid.UUID
	Width   int // display width in cells, set by the widget provider
}

// widgetTable keeps placements ordered by offset. It is owned by the
// Buffer and remapped in lockstep with every committed edit batch, so a
// placement's Offset always points at a WidgetRune.
type widgetTable struct {
	placements []Placement
}

// at returns the placement whose sentinel starts at offset.
func (t *widgetTable) at(offset int) (Placement, bool) {
	i := sort.Search(len(t.placements), func(i int) bool {
		return t.placements[i].Offset >= offset
	})
	if i < len(t.placements) && t.placements[i].Offset == offset {
		return t.placements[i], true
	}
	return Placement{}, false
}

// insert adds a placement, keeping offset order.
func (t *widgetTable) insert(p Placement) {
	i := sort.Search(len(t.placements), func(i int) bool {
		return t.placements[i].Offset >= p.Offset
	})
	t.placements = append(t.placements, Placement{})
	copy(t.placements[i+1:], t.placements[i:])
	t.placements[i] = p
}

// all returns a copy of the placements in offset order.
func (t *widgetTable) all() []Placement {
	out := make([]Placement, len(t.placements))
	copy(out, t.placements)
	return out
}

// remap moves placements through a committed edit batch, sorted ascending.
// A placement inside a deleted range is dropped: its sentinel is gone.
// The rules mirror the position tracker's: before an edit, unchanged;
// at/after an edit's end, shifted by the cumulative delta.
func (t *widgetTable) remap(edits []Edit) {
	if len(edits) == 0 || len(t.placements) == 0 {
		return
	}
	kept := t.placements[:0]
	delta := 0
	ei := 0
	for _, p := range t.placements {
		for ei < len(edits) && edits[ei].Range.End <= p.Offset {
			delta += edits[ei].Delta()
			ei++
		}
		if ei < len(edits) && edits[ei].Range.Start <= p.Offset && p.Offset < edits[ei].Range.End {
			continue // sentinel deleted along with its widget
		}
		p.Offset += delta
		kept = append(kept, p)
	}
	t.placements = kept
}

// clone returns an independent copy of the table.
func (t *widgetTable) clone() widgetTable {
	return widgetTable{placements: t.all()}
}
