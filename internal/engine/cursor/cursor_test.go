package cursor

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

func TestSelectionBasics(t *testing.T) {
	sel := NewSelection(5, 2)
	if !sel.IsBackward() {
		t.Error("head before anchor should be backward")
	}
	if sel.Start() != 2 || sel.End() != 5 {
		t.Errorf("Start/End = %d/%d, want 2/5", sel.Start(), sel.End())
	}
	if sel.Len() != 3 {
		t.Errorf("Len = %d, want 3", sel.Len())
	}
	if got := sel.Collapse(); got.Anchor != 2 || got.Head != 2 {
		t.Errorf("Collapse = %v", got)
	}
	if got := sel.WithRange(Range{Start: 1, End: 9}); got.Head != 1 || got.Anchor != 9 {
		t.Errorf("WithRange should keep backward sidedness, got %v", got)
	}
}

func TestSetMergesOverlap(t *testing.T) {
	// Selections [2,5) and [4,8) collapse into one selection [2,8).
	s := NewSet(0)
	s.Set(NewSelection(2, 5))
	s.Add(NewSelection(4, 8))

	if s.Count() != 1 {
		t.Fatalf("Count = %d, want 1", s.Count())
	}
	got := s.Get(0)
	if got.Start() != 2 || got.End() != 8 {
		t.Errorf("merged = %v, want [2,8)", got)
	}
	// Sidedness comes from the later-added selection, which was forward.
	if got.IsBackward() {
		t.Error("merged selection should be forward")
	}
}

func TestSetMergeSidednessFromRecent(t *testing.T) {
	s := NewSet(0)
	s.Set(NewSelection(2, 5))
	s.Add(NewSelection(8, 4)) // backward, added last

	got := s.Get(0)
	if !got.IsBackward() {
		t.Error("merged selection should take the recent backward sidedness")
	}
	if got.Anchor != 8 || got.Head != 2 {
		t.Errorf("merged = %v, want Selection(8←2)", got)
	}
}

func TestSetDistinctCaretsKept(t *testing.T) {
	s := NewSet(3)
	s.AddCaretAt(10)
	s.AddCaretAt(17)
	if s.Count() != 3 {
		t.Fatalf("Count = %d, want 3", s.Count())
	}
	s.AddCaretAt(10)
	if s.Count() != 3 {
		t.Errorf("duplicate caret should merge, Count = %d", s.Count())
	}
}

func TestPrimaryIsMostRecent(t *testing.T) {
	s := NewSet(3)
	s.AddCaretAt(17)
	s.AddCaretAt(10)
	if got := s.Primary(); got.Head != 10 {
		t.Errorf("Primary().Head = %d, want 10", got.Head)
	}
	s.KeepPrimary()
	if s.Count() != 1 || s.Get(0).Head != 10 {
		t.Errorf("KeepPrimary kept %v", s.All())
	}
}

func TestFanOutInsert(t *testing.T) {
	// Carets at [3, 10, 17]; inserting "X" at each yields carets at
	// [4, 12, 20], each shifted only by the insertions before it.
	buf := buffer.FromString("aaaaaaaaaabbbbbbbcccccc")
	s := NewSet(3)
	s.AddCaretAt(10)
	s.AddCaretAt(17)

	edits, err := s.ComputeEdits(buf.Snapshot(), InsertText("X"))
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if err := buf.ApplyEdits(edits); err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	s.ApplyEdits(edits)

	if got := buf.Text(); got != "aaaXaaaaaaaXbbbbbbbXcccccc" {
		t.Errorf("text = %q", got)
	}
	want := []int{4, 12, 20}
	for i, sel := range s.All() {
		if !sel.IsCaret() || sel.Head != want[i] {
			t.Errorf("selection %d = %v, want caret at %d", i, sel, want[i])
		}
	}
}

func TestFanOutOverlapDetected(t *testing.T) {
	buf := buffer.FromString("hello world")
	s := NewSet(0)
	s.Set(NewCaret(2))
	s.Add(NewCaret(4))

	_, err := s.ComputeEdits(buf.Snapshot(), func(_ *buffer.Snapshot, sel Selection) (Edit, bool) {
		// A widening edit function that ignores the merge step.
		return buffer.NewDelete(sel.Head-1, sel.Head+2), true
	})
	if !errors.Is(err, ErrOverlappingEdits) {
		t.Errorf("got %v, want ErrOverlappingEdits", err)
	}
}

func TestDeleteBackwardMergesColliding(t *testing.T) {
	buf := buffer.FromString("ab")
	s := NewSet(1)
	s.AddCaretAt(2)

	edits, err := s.ComputeEdits(buf.Snapshot(), DeleteBackward)
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if err := buf.ApplyEdits(edits); err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	s.ApplyEdits(edits)

	if buf.Text() != "" {
		t.Errorf("text = %q, want empty", buf.Text())
	}
	if s.Count() != 1 || s.Get(0).Head != 0 {
		t.Errorf("selections = %v, want one caret at 0", s.All())
	}
}

func TestDeleteBackwardWidgetAtomic(t *testing.T) {
	buf := buffer.FromString("ab")
	if err := buf.Insert(1, string(buffer.WidgetRune)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := buf.RestoreWidget(buffer.Placement{Offset: 1, Payload: uuid.New(), Width: 5}); err != nil {
		t.Fatalf("RestoreWidget: %v", err)
	}
	// "a" + widget(3 bytes) + "b"; caret right after the widget.
	s := NewSet(1 + buffer.WidgetRuneLen)

	edits, err := s.ComputeEdits(buf.Snapshot(), DeleteBackward)
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if err := buf.ApplyEdits(edits); err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	s.ApplyEdits(edits)

	if buf.Text() != "ab" {
		t.Errorf("text = %q, want %q", buf.Text(), "ab")
	}
	if len(buf.Widgets()) != 0 {
		t.Errorf("widget should be gone, got %v", buf.Widgets())
	}
	if got := s.Get(0); got.Head != 1 {
		t.Errorf("caret at %d, want 1", got.Head)
	}
}

func TestApplyEditsCollapsesInsideDeletion(t *testing.T) {
	s := NewSet(7)
	s.ApplyEdits([]Edit{buffer.NewDelete(5, 10)})
	if got := s.Get(0); got.Head != 5 {
		t.Errorf("caret = %d, want 5", got.Head)
	}
}

func TestMoveHorizontalGraphemes(t *testing.T) {
	snap := buffer.SnapshotOf("héllo")
	sel := NewCaret(0)

	sel = MoveRight(snap, sel, false)
	if sel.Head != 1 {
		t.Errorf("after h: head = %d, want 1", sel.Head)
	}
	sel = MoveRight(snap, sel, false)
	if sel.Head != 3 {
		t.Errorf("after é: head = %d, want 3", sel.Head)
	}
	sel = MoveLeft(snap, sel, false)
	if sel.Head != 1 {
		t.Errorf("back over é: head = %d, want 1", sel.Head)
	}
}

func TestMoveLeftCollapsesExtent(t *testing.T) {
	snap := buffer.SnapshotOf("hello")
	sel := NewSelection(1, 4)
	if got := MoveLeft(snap, sel, false); got.Head != 1 || !got.IsCaret() {
		t.Errorf("MoveLeft = %v, want caret at 1", got)
	}
	if got := MoveRight(snap, sel, false); got.Head != 4 || !got.IsCaret() {
		t.Errorf("MoveRight = %v, want caret at 4", got)
	}
}

func TestMoveVerticalDesiredColumn(t *testing.T) {
	snap := buffer.SnapshotOf("abcdef\nxy\nabcdef")
	sel := NewCaret(5) // line 0, column 5

	sel = MoveVertical(snap, sel, 1, false)
	if p := snap.OffsetToPoint(sel.Head); p.Line != 1 || p.Column != 2 {
		t.Errorf("line 1: at %v, want end of short line", p)
	}
	sel = MoveVertical(snap, sel, 1, false)
	if p := snap.OffsetToPoint(sel.Head); p.Line != 2 || p.Column != 5 {
		t.Errorf("line 2: at %v, want desired column 5 restored", p)
	}
}

func TestWordRange(t *testing.T) {
	snap := buffer.SnapshotOf("let freq1 = 440hz")
	tests := []struct {
		name   string
		offset int
		want   Range
	}{
		{"start of word", 4, Range{Start: 4, End: 9}},
		{"inside word", 6, Range{Start: 4, End: 9}},
		{"punctuation alone", 10, Range{Start: 10, End: 11}},
		{"number with unit", 13, Range{Start: 12, End: 17}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordRange(snap, tt.offset); got != tt.want {
				t.Errorf("WordRange(%d) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestSelectWordKeepsSidedness(t *testing.T) {
	snap := buffer.SnapshotOf("hello world")
	sel := SelectWord(snap, NewCaret(7))
	if sel.Start() != 6 || sel.End() != 11 {
		t.Errorf("SelectWord = %v, want [6,11)", sel)
	}
	if sel.IsBackward() {
		t.Error("caret select should produce a forward selection")
	}
}

func TestSelectWordAtEndAfterMultibyteRune(t *testing.T) {
	snap := buffer.SnapshotOf("aπ")
	sel := SelectWord(snap, NewCaret(snap.Len()))
	if sel.Start() != 0 || sel.End() != 3 {
		t.Errorf("SelectWord = %v, want the whole word [0,3)", sel)
	}
}

func TestSelectWordAtEndAfterWidget(t *testing.T) {
	snap := buffer.SnapshotOf("a￼")
	sel := SelectWord(snap, NewCaret(snap.Len()))
	if sel.Start() != 1 || sel.End() != 4 {
		t.Errorf("SelectWord = %v, want the whole sentinel [1,4)", sel)
	}
}

func TestWordRangeSnapsToRuneStart(t *testing.T) {
	snap := buffer.SnapshotOf("aπb")
	want := Range{Start: 0, End: 4}
	if got := WordRange(snap, 2); got != want {
		t.Errorf("WordRange(2) = %v, want %v", got, want)
	}
}
