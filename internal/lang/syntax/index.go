package syntax

import "sort"

// NodeIndex answers "which node encloses this range" without parent
// pointers. It is a flat preorder list of every node in the tree:
// ancestors precede descendants, so scanning backward from a start-offset
// insertion point finds the innermost enclosing node first.
//
// The index borrows the tree's nodes and is valid only for the tree it
// was built from.
type NodeIndex struct {
	nodes []*Node
}

// NewNodeIndex builds an index over every node of the tree.
func NewNodeIndex(t *Tree) *NodeIndex {
	ix := &NodeIndex{}
	if t == nil || t.Root == nil {
		return ix
	}
	t.Root.Walk(func(n *Node) bool {
		ix.nodes = append(ix.nodes, n)
		return true
	})
	return ix
}

// Len returns the number of indexed nodes.
func (ix *NodeIndex) Len() int { return len(ix.nodes) }

// Enclosing returns the innermost node whose span contains r, or nil.
// An empty r at a node boundary belongs to the node starting there.
func (ix *NodeIndex) Enclosing(r Range) *Node {
	// First node starting past r.Start cannot contain it.
	hi := sort.Search(len(ix.nodes), func(i int) bool {
		return ix.nodes[i].Span.Start > r.Start
	})
	for i := hi - 1; i >= 0; i-- {
		n := ix.nodes[i]
		if n.Span.Start <= r.Start && n.Span.End >= r.End {
			return n
		}
	}
	return nil
}

// At returns the innermost node containing the given offset, or nil.
func (ix *NodeIndex) At(offset int) *Node {
	return ix.Enclosing(Range{Start: offset, End: offset})
}

// EnclosingComposite returns the innermost composite node containing r,
// skipping token leaves and error nodes.
func (ix *NodeIndex) EnclosingComposite(r Range) *Node {
	hi := sort.Search(len(ix.nodes), func(i int) bool {
		return ix.nodes[i].Span.Start > r.Start
	})
	for i := hi - 1; i >= 0; i-- {
		n := ix.nodes[i]
		if n.Kind == KindComposite && n.Span.Start <= r.Start && n.Span.End >= r.End {
			return n
		}
	}
	return nil
}
