package syntax

import (
	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/engine/tracking"
	"github.com/kelleyvanevert/golive/internal/lang/token"
)

// Edit is an alias for buffer.Edit, for convenience.
type Edit = buffer.Edit

// Parse builds the tree for snap. When prev and edits are given, the
// top-level statements untouched by the batch are reused: statements
// fully before the first edit keep their subtrees, statements fully
// after the last edit are reused with shifted spans, and only the region
// in between is re-tokenized and re-parsed.
//
// Reuse fails closed: whenever the splice cannot be shown safe (a reused
// statement's parse could have depended on changed text, or the leaves
// do not tile the document), the whole snapshot is reparsed. edits must
// be the ascending batch that produced snap from the snapshot prev was
// built from.
func Parse(snap *buffer.Snapshot, prev *Tree, edits []Edit) *Tree {
	if prev == nil || len(edits) == 0 {
		return ParseFull(snap)
	}
	if t := parseIncremental(snap, prev, edits); t != nil {
		return t
	}
	return ParseFull(snap)
}

// selfDelimited reports whether parsing the node never looked past its
// own last token, which is what makes it safe to keep when nearby text
// changes. Statements with a trailing `;` qualify, as do fn declarations
// (their closing brace ends them) and trivia leaves. A statement without
// its terminator was parsed against lookahead that may no longer hold.
func selfDelimited(n *Node) bool {
	if n.Kind == KindToken {
		return n.Tok.Kind.IsTrivia()
	}
	if n.Kind == KindComposite {
		switch n.Comp {
		case FnDecl, EmptyStmt:
			return true
		}
	}
	leaves := n.Leaves(nil)
	if len(leaves) == 0 {
		return false
	}
	return leaves[len(leaves)-1].Tok.Kind == token.Semi
}

// startsWithKeyword reports whether the node's first token is a
// statement keyword. Keyword tokens are never absorbed by a preceding
// construct, so such a statement is a safe splice point.
func startsWithKeyword(n *Node) bool {
	leaves := n.Leaves(nil)
	return len(leaves) > 0 && leaves[0].Tok.Kind == token.Keyword
}

func parseIncremental(snap *buffer.Snapshot, prev *Tree, edits []Edit) *Tree {
	minStart := edits[0].Range.Start
	maxEnd := edits[len(edits)-1].Range.End
	delta := tracking.TotalDelta(edits)

	if prev.Len+delta != snap.Len() {
		return nil
	}

	top := prev.Root.Children

	// Prefix: self-delimited top-level nodes strictly before the first
	// edited offset. A node ending exactly at the edit is not kept, an
	// insertion there may extend it.
	prefixEnd := 0
	prefix := 0
	for prefix < len(top) && top[prefix].Span.End < minStart && selfDelimited(top[prefix]) {
		prefixEnd = top[prefix].Span.End
		prefix++
	}

	// Suffix: top-level nodes at or after the last edited offset,
	// starting at a keyword statement so the splice point cannot be
	// absorbed by whatever the middle turns into.
	suffix := len(top)
	for suffix > prefix && top[suffix-1].Span.Start >= maxEnd {
		suffix--
	}
	for suffix < len(top) && !startsWithKeyword(top[suffix]) {
		suffix++
	}
	suffixStart := prev.Len
	if suffix < len(top) {
		suffixStart = top[suffix].Span.Start
	}

	newSuffixStart := suffixStart + delta
	if newSuffixStart > snap.Len() || prefixEnd > newSuffixStart {
		return nil
	}

	// Relex the middle. Every token must tile it exactly; a token
	// crossing the splice point means the edit merged text across it.
	middleToks, ok := lexBetween(snap, prefixEnd, newSuffixStart)
	if !ok {
		return nil
	}

	mp := newParser(middleToks)
	middle := mp.parseNodes()

	if suffix < len(top) {
		// The keyword must reappear unchanged at the splice point, and
		// the middle must end cleanly: an unterminated construct there
		// would have swallowed the suffix in a full parse.
		if len(middle) > 0 && !selfDelimited(middle[len(middle)-1]) {
			return nil
		}
		leaves := top[suffix].Leaves(nil)
		want := leaves[0].Tok
		check := token.NewLexerAt(snap, newSuffixStart)
		if got := check.Next(); got.Kind != want.Kind || got.Text != want.Text {
			return nil
		}
	}

	children := make([]*Node, 0, len(top))
	children = append(children, top[:prefix]...)
	children = append(children, middle...)
	for _, n := range top[suffix:] {
		children = append(children, n.shifted(delta))
	}

	root := newComposite(Document, children)
	root.Span = Range{Start: 0, End: snap.Len()}

	// The spliced leaves must tile the document with no gap or overlap.
	at := 0
	ok = true
	root.Walk(func(n *Node) bool {
		if !ok {
			return false
		}
		if n.Kind == KindToken {
			if n.Tok.Start != at {
				ok = false
				return false
			}
			at = n.Tok.End()
		}
		return true
	})
	if !ok || at != snap.Len() {
		return nil
	}
	return &Tree{Root: root, Version: snap.Version(), Len: snap.Len()}
}

// lexBetween tokenizes [start, end) and reports whether the tokens tile
// the region exactly.
func lexBetween(snap *buffer.Snapshot, start, end int) ([]token.Token, bool) {
	l := token.NewLexerAt(snap, start)
	var toks []token.Token
	at := start
	for at < end {
		tok := l.Next()
		if tok.Kind == token.EOF || tok.End() > end {
			return nil, false
		}
		toks = append(toks, tok)
		at = tok.End()
	}
	return toks, at == end
}
