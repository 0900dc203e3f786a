package buffer

import (
	"github.com/kelleyvanevert/golive/internal/engine/rope"
)

// Snapshot is a read-only view of a buffer at a specific version. It will
// not change when the buffer is edited.
type Snapshot struct {
	rope     rope.Rope
	widgets  widgetTable
	version  Version
	tabWidth int
}

// SnapshotOf builds a snapshot directly from text, mainly for tests and
// the parser's pure-function interface.
func SnapshotOf(text string) *Snapshot {
	return &Snapshot{rope: rope.FromString(text)}
}

// Text returns the full content.
func (s *Snapshot) Text() string { return s.rope.String() }

// TextRange returns the text in [start, end).
func (s *Snapshot) TextRange(start, end int) string { return s.rope.Slice(start, end) }

// Len returns the byte length.
func (s *Snapshot) Len() int { return s.rope.Len() }

// Version returns the buffer version this snapshot was taken at.
func (s *Snapshot) Version() Version { return s.version }

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int { return s.rope.LineCount() }

// LineText returns the text of a line, without its newline.
func (s *Snapshot) LineText(line int) string { return s.rope.LineText(line) }

// LineStartOffset returns the byte offset where the given line starts.
func (s *Snapshot) LineStartOffset(line int) int { return s.rope.LineStartOffset(line) }

// LineEndOffset returns the byte offset where the given line ends.
func (s *Snapshot) LineEndOffset(line int) int { return s.rope.LineEndOffset(line) }

// RuneAt decodes the rune at the given byte offset.
func (s *Snapshot) RuneAt(offset int) (rune, int) { return s.rope.RuneAt(offset) }

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset int) Point { return s.rope.OffsetToPoint(offset) }

// PointToOffset converts line/column to a byte offset.
func (s *Snapshot) PointToOffset(p Point) int { return s.rope.PointToOffset(p) }

// TabWidth returns the tab width the snapshot was taken with.
func (s *Snapshot) TabWidth() int { return s.tabWidth }

// Runes returns a rune iterator over the snapshot.
func (s *Snapshot) Runes() *rope.RuneIterator { return s.rope.Runes() }

// RunesAt returns a rune iterator starting at the given byte offset.
func (s *Snapshot) RunesAt(offset int) *rope.RuneIterator { return s.rope.RunesAt(offset) }

// WidgetAt returns the placement whose sentinel starts at offset.
func (s *Snapshot) WidgetAt(offset int) (Placement, bool) { return s.widgets.at(offset) }

// Widgets returns all placements in offset order.
func (s *Snapshot) Widgets() []Placement { return s.widgets.all() }
