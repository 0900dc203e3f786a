package engine

import (
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/lang/syntax"
)

func heads(sels []Selection) []int {
	out := make([]int, len(sels))
	for i, s := range sels {
		out[i] = s.Head
	}
	return out
}

func mustHandle(t *testing.T, e *Engine, a Action) EditResult {
	t.Helper()
	res, err := e.HandleAction(a)
	if err != nil {
		t.Fatalf("HandleAction(%T): %v", a, err)
	}
	return res
}

// ============================================================================
// Basic editing
// ============================================================================

func TestInsertText(t *testing.T) {
	e := New()
	res := mustHandle(t, e, InsertText{Text: "play osc;"})

	if got := e.Text(); got != "play osc;" {
		t.Errorf("text = %q", got)
	}
	if len(res.Selections) != 1 || res.Selections[0].Head != 9 {
		t.Errorf("selections = %v", res.Selections)
	}
	if len(res.AffectedRanges) != 1 || res.AffectedRanges[0] != (Range{Start: 0, End: 9}) {
		t.Errorf("affected = %v", res.AffectedRanges)
	}
	if tree := e.Tree(); tree == nil || tree.Version != e.Version() {
		t.Errorf("tree not current after insert")
	}
}

func TestMultiCursorFanOut(t *testing.T) {
	e := New(WithContent("aaaaaaaaaabbbbbbbcccccc"))
	mustHandle(t, e, SetCursor{Anchor: 3, Head: 3})
	mustHandle(t, e, AddCursorAt{Offset: 10})
	mustHandle(t, e, AddCursorAt{Offset: 17})

	res := mustHandle(t, e, InsertText{Text: "X"})

	if got := e.Text(); got != "aaaXaaaaaaaXbbbbbbbXcccccc" {
		t.Errorf("text = %q", got)
	}
	want := []int{4, 12, 20}
	got := heads(res.Selections)
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("cursor heads = %v, want %v", got, want)
	}
}

func TestSelectionReplacedByTyping(t *testing.T) {
	e := New(WithContent("let freq = 440hz;"))
	mustHandle(t, e, SetCursor{Anchor: 11, Head: 16})
	res := mustHandle(t, e, InsertText{Text: "220hz"})

	if got := e.Text(); got != "let freq = 220hz;" {
		t.Errorf("text = %q", got)
	}
	if !res.Selections[0].IsCaret() || res.Selections[0].Head != 16 {
		t.Errorf("selection = %v", res.Selections[0])
	}
}

func TestPasteDistributesLines(t *testing.T) {
	e := New(WithContent("x\ny\nz"))
	mustHandle(t, e, SetCursor{Anchor: 0, Head: 0})
	mustHandle(t, e, AddCursorAt{Offset: 2})
	mustHandle(t, e, AddCursorAt{Offset: 4})

	mustHandle(t, e, Paste{Text: "1\n2\n3"})

	if got := e.Text(); got != "1x\n2y\n3z" {
		t.Errorf("text = %q", got)
	}
}

func TestPasteWholeTextWhenCountsDiffer(t *testing.T) {
	e := New(WithContent("ab"))
	mustHandle(t, e, SetCursor{Anchor: 1, Head: 1})
	mustHandle(t, e, Paste{Text: "1\n2"})

	if got := e.Text(); got != "a1\n2b" {
		t.Errorf("text = %q", got)
	}
}

func TestDeleteBackwardAtStartIsNoOp(t *testing.T) {
	e := New(WithContent("ab"))
	mustHandle(t, e, SetCursor{Anchor: 0, Head: 0})
	res := mustHandle(t, e, DeleteBackward{})

	if got := e.Text(); got != "ab" {
		t.Errorf("text = %q", got)
	}
	if len(res.AffectedRanges) != 0 {
		t.Errorf("affected = %v", res.AffectedRanges)
	}
}

// ============================================================================
// Cursor actions
// ============================================================================

func TestMoveCursorVertical(t *testing.T) {
	e := New(WithContent("abcdef\nxy\nabcdef"))
	mustHandle(t, e, SetCursor{Anchor: 4, Head: 4})

	res := mustHandle(t, e, MoveCursor{Dir: Down})
	if res.Selections[0].Head != 9 {
		t.Errorf("after down: head = %d, want 9", res.Selections[0].Head)
	}
	res = mustHandle(t, e, MoveCursor{Dir: Down})
	if res.Selections[0].Head != 14 {
		t.Errorf("desired column lost: head = %d, want 14", res.Selections[0].Head)
	}
}

func TestSelectAllAndWord(t *testing.T) {
	e := New(WithContent("let freq1 = 440hz;"))
	mustHandle(t, e, SetCursor{Anchor: 6, Head: 6})

	res := mustHandle(t, e, SelectWord{})
	if r := res.Selections[0].Range(); r != (Range{Start: 4, End: 9}) {
		t.Errorf("word selection = %v", r)
	}

	res = mustHandle(t, e, SelectAll{})
	if r := res.Selections[0].Range(); r != (Range{Start: 0, End: 18}) {
		t.Errorf("select all = %v", r)
	}
}

func TestOutOfRangeCursorActions(t *testing.T) {
	e := New(WithContent("ab"))
	if _, err := e.HandleAction(AddCursorAt{Offset: 5}); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("AddCursorAt err = %v", err)
	}
	if _, err := e.HandleAction(SetCursor{Anchor: -1, Head: 0}); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("SetCursor err = %v", err)
	}
	// Document untouched by the failed actions.
	if got := e.Text(); got != "ab" {
		t.Errorf("text = %q", got)
	}
}

func TestMidRuneCursorActionsRejected(t *testing.T) {
	e := New(WithContent("aπ"))
	// Offset 2 falls inside the two-byte encoding of π.
	if _, err := e.HandleAction(AddCursorAt{Offset: 2}); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("AddCursorAt err = %v", err)
	}
	if _, err := e.HandleAction(SetCursor{Anchor: 2, Head: 2}); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("SetCursor err = %v", err)
	}
}

func TestSelectWordAtEndKeepsValidEncoding(t *testing.T) {
	e := New(WithContent("aπ"))
	mustHandle(t, e, SetCursor{Anchor: 3, Head: 3})
	mustHandle(t, e, SelectWord{})

	sel := e.Primary()
	if sel.Start() != 0 || sel.End() != 3 {
		t.Fatalf("selection = %v, want [0,3)", sel)
	}
	mustHandle(t, e, InsertText{Text: "x"})
	if got := e.Text(); got != "x" {
		t.Errorf("text = %q", got)
	}
	if !utf8.ValidString(e.Text()) {
		t.Error("document contains invalid UTF-8")
	}
}

func TestSelectWordAfterWidgetCoversSentinel(t *testing.T) {
	e := New(WithContent("a"))
	mustHandle(t, e, SetCursor{Anchor: 1, Head: 1})
	mustHandle(t, e, InsertWidget{Payload: uuid.New(), Width: 2})
	mustHandle(t, e, SelectWord{})

	sel := e.Primary()
	if sel.Start() != 1 || sel.End() != 4 {
		t.Fatalf("selection = %v, want the whole sentinel [1,4)", sel)
	}
	mustHandle(t, e, DeleteBackward{})
	if got := e.Text(); got != "a" {
		t.Errorf("text = %q", got)
	}
	if len(e.Widgets()) != 0 {
		t.Errorf("widgets = %v", e.Widgets())
	}
}

// ============================================================================
// Undo / redo
// ============================================================================

func TestUndoRedoMultiCursorBatch(t *testing.T) {
	e := New(WithContent("a b c"))
	mustHandle(t, e, SetCursor{Anchor: 1, Head: 1})
	mustHandle(t, e, AddCursorAt{Offset: 3})
	mustHandle(t, e, AddCursorAt{Offset: 5})
	mustHandle(t, e, InsertText{Text: "!"})

	if got := e.Text(); got != "a! b! c!" {
		t.Fatalf("text = %q", got)
	}

	res := mustHandle(t, e, Undo{})
	if got := e.Text(); got != "a b c" {
		t.Errorf("after undo: text = %q", got)
	}
	got := heads(res.Selections)
	if len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 5 {
		t.Errorf("after undo: heads = %v", got)
	}

	res = mustHandle(t, e, Redo{})
	if got := e.Text(); got != "a! b! c!" {
		t.Errorf("after redo: text = %q", got)
	}
	got = heads(res.Selections)
	if len(got) != 3 || got[0] != 2 || got[1] != 5 || got[2] != 8 {
		t.Errorf("after redo: heads = %v", got)
	}
}

func TestUndoEmptyStack(t *testing.T) {
	e := New()
	if _, err := e.HandleAction(Undo{}); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v", err)
	}
}

// ============================================================================
// Widgets
// ============================================================================

func TestInsertWidgetAndUndoRedo(t *testing.T) {
	e := New(WithContent("ab"))
	mustHandle(t, e, SetCursor{Anchor: 1, Head: 1})

	id := uuid.New()
	res := mustHandle(t, e, InsertWidget{Payload: id, Width: 5})

	if got := e.Text(); got != "a"+string(buffer.WidgetRune)+"b" {
		t.Fatalf("text = %q", got)
	}
	ws := e.Widgets()
	if len(ws) != 1 || ws[0].Offset != 1 || ws[0].Payload != id || ws[0].Width != 5 {
		t.Fatalf("widgets = %v", ws)
	}
	if res.Selections[0].Head != 1+buffer.WidgetRuneLen {
		t.Errorf("cursor after widget = %d", res.Selections[0].Head)
	}

	mustHandle(t, e, Undo{})
	if got := e.Text(); got != "ab" {
		t.Errorf("after undo: text = %q", got)
	}
	if len(e.Widgets()) != 0 {
		t.Errorf("after undo: widgets = %v", e.Widgets())
	}

	mustHandle(t, e, Redo{})
	ws = e.Widgets()
	if len(ws) != 1 || ws[0].Offset != 1 || ws[0].Payload != id {
		t.Errorf("after redo: widgets = %v", ws)
	}
}

func TestBackspaceDeletesWholeWidget(t *testing.T) {
	e := New(WithContent("ab"))
	mustHandle(t, e, SetCursor{Anchor: 1, Head: 1})
	mustHandle(t, e, InsertWidget{Payload: uuid.New(), Width: 2})

	mustHandle(t, e, DeleteBackward{})
	if got := e.Text(); got != "ab" {
		t.Errorf("text = %q", got)
	}
	if len(e.Widgets()) != 0 {
		t.Errorf("widgets = %v", e.Widgets())
	}
}

// ============================================================================
// Persistence
// ============================================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	e := New(WithContent("play osc;"))
	mustHandle(t, e, SetCursor{Anchor: 5, Head: 5})
	id := uuid.New()
	mustHandle(t, e, InsertWidget{Payload: id, Width: 3})

	text, placements := e.Save()

	e2 := New()
	if err := e2.Load(text, placements); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e2.Text() != text {
		t.Errorf("text = %q, want %q", e2.Text(), text)
	}
	ws := e2.Widgets()
	if len(ws) != 1 || ws[0].Offset != 5 || ws[0].Payload != id || ws[0].Width != 3 {
		t.Errorf("widgets = %v", ws)
	}
	if tree := e2.Tree(); tree == nil || tree.Len != e2.Len() {
		t.Errorf("tree not rebuilt on load")
	}
}

// ============================================================================
// Failure modes
// ============================================================================

func TestReadOnlyEngine(t *testing.T) {
	e := New(WithContent("ab"), WithReadOnly())
	if _, err := e.HandleAction(InsertText{Text: "x"}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("err = %v", err)
	}
	// Cursor motion still works.
	mustHandle(t, e, MoveCursor{Dir: Right})
}

func TestUnusableDocumentRejectsActions(t *testing.T) {
	e := New(WithContent("ab"))
	e.mu.Lock()
	e.fatal = ErrLengthMismatch
	e.mu.Unlock()

	if !e.Unusable() {
		t.Fatal("expected unusable")
	}
	if _, err := e.HandleAction(InsertText{Text: "x"}); !errors.Is(err, ErrUnusable) {
		t.Errorf("err = %v", err)
	}
}

// ============================================================================
// Async reparsing
// ============================================================================

func TestAsyncReparseCatchesUp(t *testing.T) {
	e := New(WithContent("let a = 1;\n"), WithAsyncReparse())
	defer e.Close()

	mustHandle(t, e, SetCursor{Anchor: e.Len(), Head: e.Len()})
	mustHandle(t, e, InsertText{Text: "play a;\n"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tree := e.Tree(); tree != nil && tree.Version == e.Version() {
			if err := tree.Validate(e.Snapshot()); err != nil {
				t.Fatalf("published tree invalid: %v", err)
			}
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("tree never caught up with the document")
}

func TestStaleParseResultDiscarded(t *testing.T) {
	e := New(WithContent("let a = 1;"))

	stale := e.Snapshot()
	staleTree := syntax.ParseFull(stale)
	mustHandle(t, e, SetCursor{Anchor: 0, Head: 0})
	mustHandle(t, e, InsertText{Text: "x"})

	if e.publishTree(stale, staleTree) {
		t.Fatal("stale parse was published")
	}
	if tree := e.Tree(); tree.Version != e.Version() {
		t.Errorf("current tree lost: version %d vs %d", tree.Version, e.Version())
	}

	// A result for the current version does publish.
	cur := e.Snapshot()
	if !e.publishTree(cur, syntax.ParseFull(cur)) {
		t.Error("current parse rejected")
	}
}
