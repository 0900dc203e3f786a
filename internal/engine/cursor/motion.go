package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

// Boundary helpers step by grapheme cluster, not by rune, so combining
// marks, emoji sequences and the widget placeholder all move as one unit.

// NextBoundary returns the offset one grapheme cluster after offset,
// clamped to the document end.
func NextBoundary(snap *buffer.Snapshot, offset int) int {
	if offset >= snap.Len() {
		return snap.Len()
	}
	end := offset + 64
	if end > snap.Len() {
		end = snap.Len()
	}
	window := snap.TextRange(offset, end)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(window, -1)
	if cluster == "" {
		return offset + 1
	}
	return offset + len(cluster)
}

// PrevBoundary returns the offset one grapheme cluster before offset,
// clamped to 0. The text from the start of the line is re-segmented to
// find the last boundary.
func PrevBoundary(snap *buffer.Snapshot, offset int) int {
	if offset <= 0 {
		return 0
	}
	line := snap.OffsetToPoint(offset).Line
	lineStart := snap.LineStartOffset(line)
	if offset == lineStart {
		// Step over the newline onto the previous line.
		return offset - 1
	}
	prefix := snap.TextRange(lineStart, offset)
	prev := lineStart
	state := -1
	for len(prefix) > 0 {
		var cluster string
		cluster, prefix, _, state = uniseg.FirstGraphemeClusterInString(prefix, state)
		if len(prefix) == 0 {
			return prev
		}
		prev += len(cluster)
	}
	return prev
}

// MoveLeft moves the head one grapheme left. Without extend, a selection
// with extent collapses to its start instead of moving.
func MoveLeft(snap *buffer.Snapshot, sel Selection, extend bool) Selection {
	if !extend && !sel.IsCaret() {
		return sel.MoveTo(sel.Start())
	}
	head := PrevBoundary(snap, sel.Head)
	if extend {
		sel = sel.Extend(head)
		sel.DesiredColumn = -1
		return sel
	}
	return sel.MoveTo(head)
}

// MoveRight moves the head one grapheme right. Without extend, a selection
// with extent collapses to its end instead of moving.
func MoveRight(snap *buffer.Snapshot, sel Selection, extend bool) Selection {
	if !extend && !sel.IsCaret() {
		return sel.MoveTo(sel.End())
	}
	head := NextBoundary(snap, sel.Head)
	if extend {
		sel = sel.Extend(head)
		sel.DesiredColumn = -1
		return sel
	}
	return sel.MoveTo(head)
}

// MoveLineStart moves the head to the start of its line.
func MoveLineStart(snap *buffer.Snapshot, sel Selection, extend bool) Selection {
	start := snap.LineStartOffset(snap.OffsetToPoint(sel.Head).Line)
	if extend {
		sel = sel.Extend(start)
		sel.DesiredColumn = -1
		return sel
	}
	return sel.MoveTo(start)
}

// MoveLineEnd moves the head to the end of its line, before the newline.
func MoveLineEnd(snap *buffer.Snapshot, sel Selection, extend bool) Selection {
	end := snap.LineEndOffset(snap.OffsetToPoint(sel.Head).Line)
	if extend {
		sel = sel.Extend(end)
		sel.DesiredColumn = -1
		return sel
	}
	return sel.MoveTo(end)
}

// MoveVertical moves the head dy lines down (negative dy moves up),
// aiming for the remembered desired column when the head passes through
// shorter lines.
func MoveVertical(snap *buffer.Snapshot, sel Selection, dy int, extend bool) Selection {
	p := snap.OffsetToPoint(sel.Head)
	col := sel.DesiredColumn
	if col < 0 {
		col = p.Column
	}
	line := p.Line + dy
	if line < 0 {
		line = 0
	}
	if max := snap.LineCount() - 1; line > max {
		line = max
	}
	start := snap.LineStartOffset(line)
	end := snap.LineEndOffset(line)
	head := start + col
	if head > end {
		head = end
	}
	for head > start && head < snap.Len() && !utf8.RuneStart(snap.TextRange(head, head+1)[0]) {
		head--
	}
	if extend {
		sel = sel.Extend(head)
	} else {
		sel = sel.MoveTo(head)
	}
	sel.DesiredColumn = col
	return sel
}

// WordRange returns the range of the word at offset. Identifier runes
// (letters, digits, underscore) group together; the widget placeholder is
// its own unit; any other rune stands alone. At end of document the last
// word is used.
func WordRange(snap *buffer.Snapshot, offset int) Range {
	if snap.Len() == 0 {
		return Range{}
	}
	if offset >= snap.Len() {
		_, size := runeBefore(snap, snap.Len())
		offset = snap.Len() - size
	}
	for offset > 0 && !utf8.RuneStart(snap.TextRange(offset, offset+1)[0]) {
		offset--
	}
	r, size := snap.RuneAt(offset)
	if r == buffer.WidgetRune {
		return Range{Start: offset, End: offset + size}
	}
	if !isWordRune(r) {
		return Range{Start: offset, End: offset + size}
	}
	start := offset
	for start > 0 {
		pr, psize := runeBefore(snap, start)
		if !isWordRune(pr) {
			break
		}
		start -= psize
	}
	end := offset
	for end < snap.Len() {
		nr, nsize := snap.RuneAt(end)
		if !isWordRune(nr) {
			break
		}
		end += nsize
	}
	return Range{Start: start, End: end}
}

// SelectWord widens the selection to the word under its head, keeping
// the selection's sidedness.
func SelectWord(snap *buffer.Snapshot, sel Selection) Selection {
	off := sel.Head
	if (sel.IsBackward() || off >= snap.Len()) && off > 0 {
		_, size := runeBefore(snap, off)
		off -= size
	}
	sel = sel.WithRange(WordRange(snap, off))
	sel.DesiredColumn = -1
	return sel
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// runeBefore decodes the rune ending at offset.
func runeBefore(snap *buffer.Snapshot, offset int) (rune, int) {
	start := offset - utf8.UTFMax
	if start < 0 {
		start = 0
	}
	return utf8.DecodeLastRuneInString(snap.TextRange(start, offset))
}
