package rope

import "unicode/utf8"

// Builder assembles a rope from sequential writes without repeated
// splitting. Used when loading documents.
type Builder struct {
	leaves  []*node
	pending []byte
}

// WriteString appends text to the builder.
func (b *Builder) WriteString(s string) {
	b.pending = append(b.pending, s...)
	for len(b.pending) >= maxChunk {
		cut := boundary(b.pending, targetChunk)
		b.leaves = append(b.leaves, newLeaf(string(b.pending[:cut])))
		b.pending = b.pending[cut:]
	}
}

// Build finalizes and returns the rope. The builder must not be reused.
func (b *Builder) Build() Rope {
	if len(b.pending) > 0 {
		b.leaves = append(b.leaves, newLeaf(string(b.pending)))
		b.pending = nil
	}
	if len(b.leaves) == 0 {
		return New()
	}

	// Build the tree bottom-up, maxChildren at a time.
	nodes := b.leaves
	for len(nodes) > 1 {
		var parents []*node
		for i := 0; i < len(nodes); i += maxChildren {
			end := min(i+maxChildren, len(nodes))
			group := make([]*node, end-i)
			copy(group, nodes[i:end])
			parents = append(parents, newInternal(group))
		}
		nodes = parents
	}
	return Rope{root: nodes[0]}
}

// boundary finds a cut point near target that does not split a UTF-8
// sequence, preferring to cut just after a newline.
func boundary(data []byte, target int) int {
	if target >= len(data) {
		return len(data)
	}
	for i := target; i > 0 && i > target-32; i-- {
		if data[i-1] == '\n' {
			return i
		}
	}
	cut := target
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	if cut == 0 {
		cut = target // invalid UTF-8; cut anyway rather than loop
	}
	return cut
}
