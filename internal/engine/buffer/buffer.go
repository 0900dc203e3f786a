package buffer

import (
	"errors"
	"strings"
	"sync"

	"github.com/kelleyvanevert/golive/internal/engine/rope"
)

// Errors returned by buffer operations. These are contract violations:
// the buffer validates before applying, so a failed call leaves the
// document untouched.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not sorted ascending")
	ErrNotAWidget       = errors.New("no widget at offset")
)

// Version identifies a state of the buffer. Every committed edit batch
// produces a new, strictly larger version.
type Version uint64

// Buffer is the mutable document: a rope plus the widget side table.
type Buffer struct {
	mu       sync.RWMutex
	rope     rope.Rope
	widgets  widgetTable
	version  Version
	tabWidth int
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		rope:     rope.New(),
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromString creates a buffer with initial content. Line endings are
// normalized to LF; widget sentinels in the text are not registered, use
// Load for that.
func FromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(normalizeNewlines(s))
	return b
}

// Load reinitializes the buffer from persisted text and widget
// placements. Placements must be ordered by position and each must point
// at a WidgetRune in the text.
func (b *Buffer) Load(text string, placements []Placement) error {
	r := rope.FromString(normalizeNewlines(text))
	prev := -1
	for _, p := range placements {
		if p.Offset <= prev {
			return ErrRangeInvalid
		}
		if ch, _ := r.RuneAt(p.Offset); ch != WidgetRune {
			return ErrNotAWidget
		}
		prev = p.Offset
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.rope = r
	b.widgets = widgetTable{placements: append([]Placement(nil), placements...)}
	b.version++
	return nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// TextRange returns text in the byte range [start, end).
func (b *Buffer) TextRange(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// Len returns the total byte length.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// Version returns the current buffer version.
func (b *Buffer) Version() Version {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// RuneAt decodes the rune at the given byte offset.
func (b *Buffer) RuneAt(offset int) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.RuneAt(offset)
}

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a byte offset.
func (b *Buffer) PointToOffset(p Point) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.PointToOffset(p)
}

// TabWidth returns the configured tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// Insert inserts text at the given offset. Fails with ErrOffsetOutOfRange
// if offset is outside [0, Len()].
func (b *Buffer) Insert(offset int, text string) error {
	return b.ApplyEdits([]Edit{NewInsert(offset, text)})
}

// Delete removes [start, end). Fails with ErrRangeInvalid if start > end
// or end > Len().
func (b *Buffer) Delete(start, end int) error {
	return b.ApplyEdits([]Edit{NewDelete(start, end)})
}

// Replace replaces [start, end) with text.
func (b *Buffer) Replace(start, end int, text string) error {
	return b.ApplyEdits([]Edit{NewReplace(start, end, text)})
}

// ApplyEdits commits a batch of edits atomically. Edits must be sorted
// ascending by start offset and non-overlapping; everything is validated
// before the first byte moves. Widget placements are remapped in the same
// commit. Returns the new version.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	_, err := b.ApplyEditsVersioned(edits)
	return err
}

// ApplyEditsVersioned is ApplyEdits returning the resulting version.
func (b *Buffer) ApplyEditsVersioned(edits []Edit) (Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ValidateEdits(edits, b.rope.Len()); err != nil {
		return b.version, err
	}
	if len(edits) == 0 {
		return b.version, nil
	}

	// Apply back to front so earlier offsets stay valid; the tracker and
	// the widget table see the ascending list.
	r := b.rope
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		r = r.Replace(e.Range.Start, e.Range.End, normalizeNewlines(e.NewText))
	}
	b.rope = r
	b.widgets.remap(edits)
	b.version++
	return b.version, nil
}

// RestoreWidget re-registers a placement whose sentinel rune is already
// back in the text, as happens when an undo reinserts deleted widget
// text. The offset must hold a widget sentinel.
func (b *Buffer) RestoreWidget(p Placement) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r, _ := b.rope.RuneAt(p.Offset); r != WidgetRune {
		return ErrNotAWidget
	}
	if _, ok := b.widgets.at(p.Offset); ok {
		return nil
	}
	b.widgets.insert(p)
	return nil
}

// WidgetAt returns the placement whose sentinel starts at offset.
func (b *Buffer) WidgetAt(offset int) (Placement, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.widgets.at(offset)
}

// Widgets returns all placements in offset order.
func (b *Buffer) Widgets() []Placement {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.widgets.all()
}

// Snapshot returns an immutable view of the current state. Safe to share
// across goroutines; never blocks in-flight edits after it returns.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		rope:     b.rope,
		widgets:  b.widgets.clone(),
		version:  b.version,
		tabWidth: b.tabWidth,
	}
}
