package rope

import "strings"

// Tree shape constants.
const (
	// maxChildren is the maximum children per internal node.
	maxChildren = 8

	// maxChunk is the maximum bytes per leaf before splitting.
	maxChunk = 256

	// targetChunk is the preferred leaf size when building.
	targetChunk = 192
)

// node is a node in the persistent rope tree. Leaves (height 0) hold a
// single text chunk; internal nodes hold children. Nodes are never mutated
// after construction.
type node struct {
	height   int
	sum      summary
	chunk    string  // leaf only
	children []*node // internal only
}

func newLeaf(chunk string) *node {
	return &node{sum: summarize(chunk), chunk: chunk}
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf("")
	}
	n := &node{
		height:   children[0].height + 1,
		children: children,
	}
	for _, c := range children {
		n.sum = n.sum.add(c.sum)
	}
	return n
}

func (n *node) isLeaf() bool { return n.height == 0 }

func (n *node) len() int { return n.sum.bytes }

func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		sb.WriteString(n.chunk)
		return
	}
	for _, c := range n.children {
		c.appendTo(sb)
	}
}

// appendRange appends the text in [start, end) to sb. Bounds are assumed
// valid for this subtree.
func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		sb.WriteString(n.chunk[start:end])
		return
	}
	offset := 0
	for _, c := range n.children {
		childEnd := offset + c.len()
		if childEnd > start && offset < end {
			s, e := start-offset, end-offset
			if s < 0 {
				s = 0
			}
			if e > c.len() {
				e = c.len()
			}
			c.appendRange(sb, s, e)
		}
		if childEnd >= end {
			break
		}
		offset = childEnd
	}
}

// byteAt returns the byte at the given offset within this subtree.
func (n *node) byteAt(offset int) byte {
	for !n.isLeaf() {
		for _, c := range n.children {
			if offset < c.len() {
				n = c
				break
			}
			offset -= c.len()
		}
	}
	return n.chunk[offset]
}

// split splits the subtree at offset into two independent trees.
func (n *node) split(offset int) (*node, *node) {
	if offset <= 0 {
		return newLeaf(""), n
	}
	if offset >= n.len() {
		return n, newLeaf("")
	}
	if n.isLeaf() {
		return newLeaf(n.chunk[:offset]), newLeaf(n.chunk[offset:])
	}

	var left, right []*node
	pos := 0
	for _, c := range n.children {
		switch {
		case pos+c.len() <= offset:
			left = append(left, c)
		case pos >= offset:
			right = append(right, c)
		default:
			l, r := c.split(offset - pos)
			if l.len() > 0 {
				left = append(left, l)
			}
			if r.len() > 0 {
				right = append(right, r)
			}
		}
		pos += c.len()
	}
	return fromNodes(left), fromNodes(right)
}

// fromNodes builds a balanced tree from nodes of mixed heights by pairwise
// concatenation. The input nodes appear left to right.
func fromNodes(nodes []*node) *node {
	switch len(nodes) {
	case 0:
		return newLeaf("")
	case 1:
		return nodes[0]
	}
	result := nodes[0]
	for _, n := range nodes[1:] {
		result = concat(result, n)
	}
	return result
}

// concat joins two trees into one, keeping height balance.
func concat(left, right *node) *node {
	if left == nil || left.len() == 0 {
		if right == nil {
			return newLeaf("")
		}
		return right
	}
	if right == nil || right.len() == 0 {
		return left
	}

	// Merge tiny leaves so repeated single-rune inserts don't degrade the
	// tree into a chain of short chunks.
	if left.isLeaf() && right.isLeaf() && left.len()+right.len() <= maxChunk {
		return newLeaf(left.chunk + right.chunk)
	}

	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}

	if left.isLeaf() {
		return newInternal([]*node{left, right})
	}
	merged := make([]*node, 0, len(left.children)+len(right.children))
	merged = append(merged, left.children...)
	merged = append(merged, right.children...)
	if len(merged) <= maxChildren {
		return newInternal(merged)
	}
	var parents []*node
	for i := 0; i < len(merged); i += maxChildren {
		end := min(i+maxChildren, len(merged))
		parents = append(parents, newInternal(merged[i:end]))
	}
	return fromNodes(parents)
}

// newlinesBefore counts '\n' bytes in [0, offset) of this subtree.
func (n *node) newlinesBefore(offset int) int {
	if offset >= n.len() {
		return n.sum.newlines
	}
	if n.isLeaf() {
		return summarize(n.chunk[:offset]).newlines
	}
	count := 0
	for _, c := range n.children {
		if offset < c.len() {
			return count + c.newlinesBefore(offset)
		}
		count += c.sum.newlines
		offset -= c.len()
	}
	return count
}

// offsetOfNewline returns the byte offset just past the nth newline
// (1-indexed). Requires 1 <= nth <= n.sum.newlines.
func (n *node) offsetOfNewline(nth int) int {
	if n.isLeaf() {
		return nthNewline(n.chunk, nth) + 1
	}
	offset := 0
	for _, c := range n.children {
		if nth <= c.sum.newlines {
			return offset + c.offsetOfNewline(nth)
		}
		nth -= c.sum.newlines
		offset += c.len()
	}
	return offset
}
