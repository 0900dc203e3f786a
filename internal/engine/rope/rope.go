package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Rope is an immutable rope. Operations return new Rope values; the
// original is never modified, which makes snapshots free and concurrent
// reads safe.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf("")}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	var b Builder
	b.WriteString(s)
	return b.Build()
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rope{}, err
		}
	}
	return b.Build(), nil
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.len()
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool { return r.Len() == 0 }

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.sum.newlines + 1
}

// String returns the full text. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end). Bounds are
// clamped to the rope.
func (r Rope) Slice(start, end int) string {
	if r.root == nil {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at the given offset.
func (r Rope) ByteAt(offset int) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}
	return r.root.byteAt(offset), true
}

// RuneAt decodes the rune starting at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (r Rope) RuneAt(offset int) (rune, int) {
	if offset < 0 || offset >= r.Len() {
		return utf8.RuneError, 0
	}
	end := min(offset+utf8.UTFMax, r.Len())
	return utf8.DecodeRuneInString(r.Slice(offset, end))
}

// Insert inserts text at the given byte offset, which is clamped to the
// rope. Returns a new rope.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if offset <= 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}
	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes the byte range [start, end). Returns a new rope.
func (r Rope) Delete(start, end int) Rope {
	if r.root == nil || start >= end || start >= r.Len() {
		return r
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces [start, end) with text. Returns a new rope.
func (r Rope) Replace(start, end int, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split splits the rope at offset: left holds [0, offset), right holds
// [offset, end).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	l, rt := r.root.split(offset)
	return Rope{root: l}, Rope{root: rt}
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// LineStartOffset returns the byte offset of the start of the given
// 0-indexed line. Past-the-end lines map to Len().
func (r Rope) LineStartOffset(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line > r.root.sum.newlines {
		return r.Len()
	}
	return r.root.offsetOfNewline(line)
}

// LineEndOffset returns the byte offset of the end of the given line,
// not including the newline.
func (r Rope) LineEndOffset(line int) int {
	if r.root == nil {
		return 0
	}
	if line >= r.root.sum.newlines {
		return r.Len()
	}
	return r.root.offsetOfNewline(line+1) - 1
}

// LineText returns the text of the given line, without its newline.
func (r Rope) LineText(line int) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// OffsetToPoint converts a byte offset to a line/column position.
func (r Rope) OffsetToPoint(offset int) Point {
	if r.root == nil || offset <= 0 {
		return Point{}
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	line := r.root.newlinesBefore(offset)
	return Point{Line: line, Column: offset - r.LineStartOffset(line)}
}

// PointToOffset converts a line/column position to a byte offset. Columns
// past the end of the line clamp to the line end.
func (r Rope) PointToOffset(p Point) int {
	if r.root == nil {
		return 0
	}
	start := r.LineStartOffset(p.Line)
	end := r.LineEndOffset(p.Line)
	if p.Column < 0 {
		return start
	}
	if start+p.Column > end {
		return end
	}
	return start + p.Column
}

// Height returns the height of the tree. Useful for balance tests.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height + 1
}

// Equals reports whether two ropes contain the same text, regardless of
// internal structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	a := r.Chunks()
	b := other.Chunks()
	var sa, sb string
	for {
		if sa == "" {
			if !a.Next() {
				return sb == "" && !b.Next()
			}
			sa = a.Chunk()
			continue
		}
		if sb == "" {
			if !b.Next() {
				return false
			}
			sb = b.Chunk()
			continue
		}
		n := min(len(sa), len(sb))
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
}
