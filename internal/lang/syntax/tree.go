package syntax

import (
	"fmt"
	"strings"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/lang/token"
)

// Range is an alias for buffer.Range, for convenience.
type Range = buffer.Range

// NodeKind is the closed set of node categories.
type NodeKind uint8

const (
	// KindToken is a leaf holding exactly one lexical token.
	KindToken NodeKind = iota
	// KindError groups tokens that could not be parsed, bounded by the
	// nearest synchronization token.
	KindError
	// KindComposite is an interior node; its CompositeKind says which
	// construct it is.
	KindComposite
)

// CompositeKind identifies a composite node's construct.
type CompositeKind uint8

const (
	Document CompositeKind = iota
	LetStmt
	PlayStmt
	PauseStmt
	ReturnStmt
	ExprStmt
	EmptyStmt
	FnDecl

	Block
	Lambda
	ParamList

	BinaryExpr
	UnaryExpr
	ParenExpr
	CallExpr
	MemberExpr
	IndexExpr
	Amount
)

var compositeNames = [...]string{
	Document:   "Document",
	LetStmt:    "LetStmt",
	PlayStmt:   "PlayStmt",
	PauseStmt:  "PauseStmt",
	ReturnStmt: "ReturnStmt",
	ExprStmt:   "ExprStmt",
	EmptyStmt:  "EmptyStmt",
	FnDecl:     "FnDecl",
	Block:      "Block",
	Lambda:     "Lambda",
	ParamList:  "ParamList",
	BinaryExpr: "BinaryExpr",
	UnaryExpr:  "UnaryExpr",
	ParenExpr:  "ParenExpr",
	CallExpr:   "CallExpr",
	MemberExpr: "MemberExpr",
	IndexExpr:  "IndexExpr",
	Amount:     "Amount",
}

func (k CompositeKind) String() string {
	if int(k) < len(compositeNames) {
		return compositeNames[k]
	}
	return fmt.Sprintf("CompositeKind(%d)", uint8(k))
}

// Node is one tree node. Children are owned exclusively by their parent;
// there are no parent pointers, traversal carries its own stack.
type Node struct {
	Kind NodeKind
	Comp CompositeKind // meaningful for KindComposite
	Tok  token.Token   // meaningful for KindToken
	Span Range

	Children []*Node
}

func newTokenNode(tok token.Token) *Node {
	return &Node{
		Kind: KindToken,
		Tok:  tok,
		Span: Range{Start: tok.Start, End: tok.End()},
	}
}

func newComposite(comp CompositeKind, children []*Node) *Node {
	n := &Node{Kind: KindComposite, Comp: comp, Children: children}
	if len(children) > 0 {
		n.Span = Range{Start: children[0].Span.Start, End: children[len(children)-1].Span.End}
	}
	return n
}

func newErrorNode(children []*Node) *Node {
	n := newComposite(0, children)
	n.Kind = KindError
	return n
}

// IsStatement reports whether the node is a statement-level construct,
// the granularity at which incremental reparsing reuses subtrees.
func (n *Node) IsStatement() bool {
	if n.Kind == KindError {
		return true
	}
	if n.Kind != KindComposite {
		return false
	}
	switch n.Comp {
	case LetStmt, PlayStmt, PauseStmt, ReturnStmt, ExprStmt, EmptyStmt, FnDecl:
		return true
	}
	return false
}

// Walk visits the subtree preorder. Returning false skips the node's
// children.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(f)
	}
}

// Leaves appends the subtree's token leaves in order.
func (n *Node) Leaves(out []*Node) []*Node {
	if n.Kind == KindToken {
		return append(out, n)
	}
	for _, c := range n.Children {
		out = c.Leaves(out)
	}
	return out
}

// Text reconstructs the subtree's exact source text from its leaves.
func (n *Node) Text() string {
	var sb strings.Builder
	n.Walk(func(m *Node) bool {
		if m.Kind == KindToken {
			sb.WriteString(m.Tok.Text)
		}
		return true
	})
	return sb.String()
}

// shifted returns a copy of the subtree with all spans moved by delta.
// The original is left alone since previous trees stay visible to
// readers.
func (n *Node) shifted(delta int) *Node {
	m := &Node{
		Kind: n.Kind,
		Comp: n.Comp,
		Tok:  n.Tok,
		Span: Range{Start: n.Span.Start + delta, End: n.Span.End + delta},
	}
	if n.Kind == KindToken {
		m.Tok.Start += delta
	}
	if len(n.Children) > 0 {
		m.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			m.Children[i] = c.shifted(delta)
		}
	}
	return m
}

func (n *Node) String() string {
	switch n.Kind {
	case KindToken:
		return n.Tok.Kind.String()
	case KindError:
		return fmt.Sprintf("Error[%d:%d]", n.Span.Start, n.Span.End)
	default:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return fmt.Sprintf("%s[%s]", n.Comp, strings.Join(parts, ", "))
	}
}

// Tree is the result of a parse: a Document root tied to the snapshot
// version it was built from.
type Tree struct {
	Root    *Node
	Version buffer.Version
	Len     int
}

// Validate checks the losslessness invariant: concatenating the leaf
// tokens reproduces the snapshot text exactly, with every offset covered
// by exactly one leaf.
func (t *Tree) Validate(snap *buffer.Snapshot) error {
	at := 0
	var leafErr error
	t.Root.Walk(func(n *Node) bool {
		if leafErr != nil {
			return false
		}
		if n.Kind == KindToken {
			if n.Tok.Start != at {
				leafErr = fmt.Errorf("syntax: leaf at %d, expected %d", n.Tok.Start, at)
				return false
			}
			at = n.Tok.End()
		}
		return true
	})
	if leafErr != nil {
		return leafErr
	}
	if at != snap.Len() {
		return fmt.Errorf("syntax: leaves cover %d bytes, document has %d", at, snap.Len())
	}
	if got := t.Root.Text(); got != snap.Text() {
		return fmt.Errorf("syntax: reconstructed text differs from document")
	}
	return nil
}

// ErrorNodes returns all error nodes, preorder.
func (t *Tree) ErrorNodes() []*Node {
	var out []*Node
	t.Root.Walk(func(n *Node) bool {
		if n.Kind == KindError {
			out = append(out, n)
		}
		return true
	})
	return out
}

// NodesIntersecting returns the deepest-first list of nodes whose spans
// intersect r.
func (t *Tree) NodesIntersecting(r Range) []*Node {
	var out []*Node
	t.Root.Walk(func(n *Node) bool {
		if n.Span.Start >= r.End || n.Span.End <= r.Start {
			return false
		}
		out = append(out, n)
		return true
	})
	return out
}
