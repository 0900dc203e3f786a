package rope

import "unicode/utf8"

// ChunkIterator walks the rope's leaf chunks left to right.
type ChunkIterator struct {
	stack []*node
	chunk string
}

// Chunks returns an iterator over the rope's chunks.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{}
	if r.root != nil && r.root.len() > 0 {
		it.stack = append(it.stack, r.root)
	}
	return it
}

// Next advances to the next non-empty chunk. Returns false when exhausted.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if n.isLeaf() {
			if len(n.chunk) > 0 {
				it.chunk = n.chunk
				return true
			}
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			it.stack = append(it.stack, n.children[i])
		}
	}
	it.chunk = ""
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() string { return it.chunk }

// RuneIterator decodes the rope's runes left to right, tracking byte
// offsets. The lexer restarts scans from arbitrary offsets with Seek.
type RuneIterator struct {
	rope   Rope
	chunks *ChunkIterator
	chunk  string
	pos    int // byte position within chunk
	offset int // absolute byte offset of the next rune
}

// Runes returns a rune iterator positioned at the start of the rope.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{rope: r, chunks: r.Chunks()}
}

// RunesAt returns a rune iterator positioned at the given byte offset,
// which must be a rune boundary.
func (r Rope) RunesAt(offset int) *RuneIterator {
	it := r.Runes()
	it.Seek(offset)
	return it
}

// Offset returns the byte offset of the next rune to be returned.
func (it *RuneIterator) Offset() int { return it.offset }

// Next returns the next rune and its byte size. Returns utf8.RuneError
// and size 0 at end of text.
func (it *RuneIterator) Next() (rune, int) {
	for it.pos >= len(it.chunk) {
		if !it.chunks.Next() {
			return utf8.RuneError, 0
		}
		it.chunk = it.chunks.Chunk()
		it.pos = 0
	}
	r, size := utf8.DecodeRuneInString(it.chunk[it.pos:])
	it.pos += size
	it.offset += size
	return r, size
}

// Peek returns the next rune without advancing.
func (it *RuneIterator) Peek() (rune, int) {
	saveChunk, savePos, saveOffset := it.chunk, it.pos, it.offset
	saveStack := make([]*node, len(it.chunks.stack))
	copy(saveStack, it.chunks.stack)
	r, size := it.Next()
	it.chunk, it.pos, it.offset = saveChunk, savePos, saveOffset
	it.chunks.stack = saveStack
	return r, size
}

// Seek repositions the iterator at an absolute byte offset.
func (it *RuneIterator) Seek(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > it.rope.Len() {
		offset = it.rope.Len()
	}
	// Restart from the root; chunk-level skipping keeps this cheap.
	it.chunks = it.rope.Chunks()
	it.chunk = ""
	it.pos = 0
	it.offset = offset
	skip := offset
	for it.chunks.Next() {
		c := it.chunks.Chunk()
		if skip < len(c) {
			it.chunk = c
			it.pos = skip
			return
		}
		skip -= len(c)
	}
}
