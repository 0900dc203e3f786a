package engine

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/engine/cursor"
	"github.com/kelleyvanevert/golive/internal/engine/history"
	"github.com/kelleyvanevert/golive/internal/engine/tracking"
	"github.com/kelleyvanevert/golive/internal/lang/syntax"
)

// Re-export commonly used types for convenience.
type (
	// Point is a line/column position.
	Point = buffer.Point

	// Range is a half-open byte range in the document.
	Range = buffer.Range

	// Edit replaces a range with new text.
	Edit = buffer.Edit

	// Version identifies a committed document state.
	Version = buffer.Version

	// Placement anchors a widget payload at a document offset.
	Placement = buffer.Placement

	// Selection is an anchor/head pair; equal means a caret.
	Selection = cursor.Selection
)

// EditResult describes what an action changed, for the renderer.
type EditResult struct {
	// Selections after the action, ascending, touching ones merged.
	Selections []Selection

	// AffectedRanges are the regions the action rewrote, in post-edit
	// coordinates, ascending. Empty for pure cursor motion.
	AffectedRanges []Range
}

// Engine coordinates the buffer, selections, history and the parser.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	buf     *buffer.Buffer
	cursors *cursor.Set
	history *history.History
	tracker *tracking.LengthTracker

	// tree is the last published parse. damage accumulates the edited
	// region since that parse, in tree coordinates, so superseded
	// background parses can be retried with the combined damage.
	tree   *syntax.Tree
	damage damage

	reparse *reparser
	fatal   error

	tabWidth       int
	maxUndoEntries int
	asyncParse     bool
	readOnly       bool
	initContent    string
	logger         *log.Logger
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		tabWidth:       DefaultTabWidth,
		maxUndoEntries: DefaultMaxUndoEntries,
		logger:         log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.FromString(e.initContent, buffer.WithTabWidth(e.tabWidth))
	e.cursors = cursor.NewSet(0)
	e.history = history.New(e.maxUndoEntries)
	e.tracker = tracking.NewLengthTracker(e.buf.Len())
	e.tree = syntax.ParseFull(e.buf.Snapshot())

	if e.asyncParse {
		e.reparse = newReparser(e)
	}
	return e
}

// Close stops the background reparse worker, if any.
func (e *Engine) Close() {
	if e.reparse != nil {
		e.reparse.stop()
	}
}

// HandleAction executes one editor action. Structural errors fail the
// action and leave the document untouched; once the document is
// unusable every action fails with ErrUnusable.
func (e *Engine) HandleAction(a Action) (EditResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fatal != nil {
		return EditResult{}, fmt.Errorf("%w: %v", ErrUnusable, e.fatal)
	}

	switch act := a.(type) {
	case InsertText:
		return e.commitFanout(cursor.InsertText(act.Text))

	case Paste:
		return e.commitFanout(e.pasteFunc(act.Text))

	case DeleteBackward:
		return e.commitFanout(cursor.DeleteBackward)

	case DeleteForward:
		return e.commitFanout(cursor.DeleteForward)

	case MoveCursor:
		return e.moveLocked(act), nil

	case AddCursorAt:
		if !e.caretOffsetLocked(act.Offset) {
			return EditResult{}, ErrOffsetOutOfRange
		}
		e.cursors.AddCaretAt(act.Offset)
		return e.resultLocked(nil), nil

	case SelectWord:
		snap := e.buf.Snapshot()
		e.cursors.Map(func(sel Selection) Selection {
			return cursor.SelectWord(snap, sel)
		})
		return e.resultLocked(nil), nil

	case SelectAll:
		e.cursors.SetAll([]Selection{cursor.NewSelection(0, e.buf.Len())})
		return e.resultLocked(nil), nil

	case SetCursor:
		if !e.caretOffsetLocked(act.Anchor) || !e.caretOffsetLocked(act.Head) {
			return EditResult{}, ErrOffsetOutOfRange
		}
		e.cursors.SetAll([]Selection{cursor.NewSelection(act.Anchor, act.Head)})
		return e.resultLocked(nil), nil

	case InsertWidget:
		return e.insertWidgetLocked(act)

	case Undo:
		return e.undoLocked()

	case Redo:
		return e.redoLocked()

	default:
		return EditResult{}, fmt.Errorf("unknown action %T", a)
	}
}

// caretOffsetLocked reports whether off is a valid caret position: inside
// the document and on a UTF-8 rune boundary. Offsets inside a multi-byte
// rune, including the widget sentinel, are rejected so later edits cannot
// split the encoding.
func (e *Engine) caretOffsetLocked(off int) bool {
	if off < 0 || off > e.buf.Len() {
		return false
	}
	if off == 0 || off == e.buf.Len() {
		return true
	}
	return utf8.RuneStart(e.buf.Snapshot().TextRange(off, off+1)[0])
}

// commitFanout runs the full write pipeline for one EditFunc: fan-out
// over the selections, validate, commit, remap, record, reparse.
func (e *Engine) commitFanout(f cursor.EditFunc) (EditResult, error) {
	if e.readOnly {
		return EditResult{}, ErrReadOnly
	}
	snap := e.buf.Snapshot()
	edits, err := e.cursors.ComputeEdits(snap, f)
	if err != nil {
		return EditResult{}, err
	}
	if len(edits) == 0 {
		return e.resultLocked(nil), nil
	}
	_, ranges, err := e.applyLocked(edits)
	if err != nil {
		return EditResult{}, err
	}
	return e.resultLocked(ranges), nil
}

// applyLocked commits one validated ascending batch and fans the
// position update out to every holder: tracker, selections, history.
func (e *Engine) applyLocked(edits []Edit) (*history.Record, []Range, error) {
	snap := e.buf.Snapshot()
	if err := buffer.ValidateEdits(edits, snap.Len()); err != nil {
		return nil, nil, err
	}

	rec := history.NewRecord(snap, edits, e.cursors.All())
	if err := e.buf.ApplyEdits(edits); err != nil {
		return nil, nil, err
	}
	if err := e.tracker.Commit(edits, e.buf.Len()); err != nil {
		e.fatal = err
		e.logger.Printf("engine: document poisoned: %v", err)
		return nil, nil, err
	}

	e.cursors.ApplyEdits(edits)
	rec.Finish(e.cursors.All())
	e.history.Push(rec)

	e.damage.extend(edits)
	e.scheduleReparseLocked()

	return rec, affectedRanges(edits), nil
}

func (e *Engine) insertWidgetLocked(act InsertWidget) (EditResult, error) {
	if e.readOnly {
		return EditResult{}, ErrReadOnly
	}
	width := act.Width
	if width <= 0 {
		width = 1
	}
	sel := e.cursors.Primary()
	edits := []Edit{buffer.NewReplace(sel.Start(), sel.End(), string(buffer.WidgetRune))}
	rec, ranges, err := e.applyLocked(edits)
	if err != nil {
		return EditResult{}, err
	}
	p := Placement{Offset: sel.Start(), Payload: act.Payload, Width: width}
	if err := e.buf.RestoreWidget(p); err != nil {
		return EditResult{}, err
	}
	rec.AddedWidgets = append(rec.AddedWidgets, p)
	return e.resultLocked(ranges), nil
}

func (e *Engine) undoLocked() (EditResult, error) {
	if e.readOnly {
		return EditResult{}, ErrReadOnly
	}
	rec, err := e.history.Undo(e.buf)
	if err != nil {
		return EditResult{}, err
	}
	inv := rec.InverseEdits()
	if err := e.tracker.Commit(inv, e.buf.Len()); err != nil {
		e.fatal = err
		e.logger.Printf("engine: document poisoned: %v", err)
		return EditResult{}, err
	}
	e.cursors = cursor.NewSetFrom(rec.SelectionsBefore)
	e.damage.extend(inv)
	e.scheduleReparseLocked()
	return e.resultLocked(affectedRanges(inv)), nil
}

func (e *Engine) redoLocked() (EditResult, error) {
	if e.readOnly {
		return EditResult{}, ErrReadOnly
	}
	rec, err := e.history.Redo(e.buf)
	if err != nil {
		return EditResult{}, err
	}
	if err := e.tracker.Commit(rec.Edits, e.buf.Len()); err != nil {
		e.fatal = err
		e.logger.Printf("engine: document poisoned: %v", err)
		return EditResult{}, err
	}
	e.cursors = cursor.NewSetFrom(rec.SelectionsAfter)
	e.damage.extend(rec.Edits)
	e.scheduleReparseLocked()
	return e.resultLocked(affectedRanges(rec.Edits)), nil
}

func (e *Engine) moveLocked(act MoveCursor) EditResult {
	snap := e.buf.Snapshot()
	e.cursors.Map(func(sel Selection) Selection {
		switch act.Dir {
		case Left:
			return cursor.MoveLeft(snap, sel, act.Extend)
		case Right:
			return cursor.MoveRight(snap, sel, act.Extend)
		case Up:
			return cursor.MoveVertical(snap, sel, -1, act.Extend)
		case Down:
			return cursor.MoveVertical(snap, sel, 1, act.Extend)
		case LineStart:
			return cursor.MoveLineStart(snap, sel, act.Extend)
		case LineEnd:
			return cursor.MoveLineEnd(snap, sel, act.Extend)
		}
		return sel
	})
	return e.resultLocked(nil)
}

// pasteFunc distributes clipboard lines across cursors when the counts
// match, one line per cursor in document order.
func (e *Engine) pasteFunc(text string) cursor.EditFunc {
	lines := strings.Split(text, "\n")
	if e.cursors.Count() > 1 && len(lines) == e.cursors.Count() {
		i := 0
		return func(snap *buffer.Snapshot, sel Selection) (Edit, bool) {
			line := lines[i]
			i++
			return buffer.NewReplace(sel.Start(), sel.End(), line), true
		}
	}
	return cursor.InsertText(text)
}

func (e *Engine) resultLocked(ranges []Range) EditResult {
	return EditResult{
		Selections:     e.cursors.All(),
		AffectedRanges: ranges,
	}
}

// affectedRanges maps an ascending batch to the ranges its new text
// occupies after the batch is applied.
func affectedRanges(edits []Edit) []Range {
	out := make([]Range, len(edits))
	delta := 0
	for i, ed := range edits {
		start := ed.Range.Start + delta
		out[i] = Range{Start: start, End: start + len(ed.NewText)}
		delta += ed.Delta()
	}
	return out
}

// ============================================================================
// Read operations
// ============================================================================

// Text returns the full document content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// TextRange returns text in [start, end).
func (e *Engine) TextRange(start, end int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(start, end)
}

// Len returns the document length in bytes.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// Version returns the current document version.
func (e *Engine) Version() Version {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Version()
}

// Snapshot returns an immutable view of the current document.
func (e *Engine) Snapshot() *buffer.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// Tree returns the most recently published syntax tree. With async
// reparsing it may lag the document by a version or two.
func (e *Engine) Tree() *syntax.Tree {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// Selections returns all selections, ascending.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.All()
}

// Primary returns the most recently placed selection.
func (e *Engine) Primary() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Primary()
}

// CursorCount returns the number of cursors.
func (e *Engine) CursorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Count()
}

// Widgets returns all widget placements, ordered by offset.
func (e *Engine) Widgets() []Placement {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Widgets()
}

// CanUndo reports whether an undo is available.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether a redo is available.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Unusable reports whether the document has been poisoned by a
// consistency failure.
func (e *Engine) Unusable() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fatal != nil
}

// ============================================================================
// Persistence
// ============================================================================

// Save returns the document text and widget placements, ordered by
// offset, for external persistence.
func (e *Engine) Save() (string, []Placement) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text(), e.buf.Widgets()
}

// Load replaces the document with persisted text and placements. It
// resets cursors, history and any poisoned state.
func (e *Engine) Load(text string, placements []Placement) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	if err := e.buf.Load(text, placements); err != nil {
		return err
	}
	e.cursors = cursor.NewSet(0)
	e.history.Clear()
	e.tracker.Reset(e.buf.Len())
	e.damage = damage{}
	e.tree = syntax.ParseFull(e.buf.Snapshot())
	e.fatal = nil
	return nil
}
