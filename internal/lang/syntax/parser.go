package syntax

import (
	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/lang/token"
)

// The parser is a recursive descent over the token stream. Statements
// that fail to parse are re-collected as Error nodes extending to the
// nearest synchronization token (`;`, `}`, `)`, a statement keyword, or
// end of document), so one malformed construct never takes down its
// siblings. Whitespace and comments stay in the tree as leaves, which is
// what makes the tree lossless.

type parser struct {
	toks []token.Token
	pos  int
}

func newParser(toks []token.Token) *parser {
	return &parser{toks: toks}
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		end := 0
		if len(p.toks) > 0 {
			end = p.toks[len(p.toks)-1].End()
		}
		return token.Token{Kind: token.EOF, Start: end}
	}
	return p.toks[p.pos]
}

func (p *parser) atEOF() bool { return p.cur().Kind == token.EOF }

// bump consumes the current token as a leaf node.
func (p *parser) bump() *Node {
	n := newTokenNode(p.cur())
	p.pos++
	return n
}

// trivia consumes whitespace and comment tokens into children.
func (p *parser) trivia(children *[]*Node) {
	for p.cur().Kind.IsTrivia() {
		*children = append(*children, p.bump())
	}
}

// parseNodes parses a run of statements with interleaved trivia until
// the token stream ends.
func (p *parser) parseNodes() []*Node {
	var nodes []*Node
	for {
		p.trivia(&nodes)
		if p.atEOF() {
			return nodes
		}
		nodes = append(nodes, p.parseStatement())
	}
}

// parseStatement never fails: if no statement form matches, the tokens
// from the statement start to the next synchronization point become one
// Error node.
func (p *parser) parseStatement() *Node {
	start := p.pos
	var n *Node
	switch tok := p.cur(); tok.Kind {
	case token.Semi:
		n = newComposite(EmptyStmt, []*Node{p.bump()})
	case token.Keyword:
		switch tok.Text {
		case "let":
			n = p.parseLet()
		case "play":
			n = p.parseKeywordExpr(PlayStmt)
		case "return":
			n = p.parseKeywordExpr(ReturnStmt)
		case "pause":
			n = p.parsePause()
		case "fn":
			n = p.parseFn()
		}
	default:
		if canStartExpr(tok) {
			n = p.parseExprStmt()
		}
	}
	if n == nil {
		p.pos = start
		n = p.errorStatement()
	}
	return n
}

// errorStatement consumes at least one token and then everything up to
// the next synchronization token. A terminating `;` belongs to the bad
// statement and is consumed; other sync tokens are left for the next
// statement.
func (p *parser) errorStatement() *Node {
	children := []*Node{p.bump()}
	if children[0].Tok.Kind == token.Semi {
		return newErrorNode(children)
	}
	for {
		switch tok := p.cur(); tok.Kind {
		case token.EOF, token.Keyword, token.RBrace, token.RParen:
			return newErrorNode(children)
		case token.Semi:
			children = append(children, p.bump())
			return newErrorNode(children)
		default:
			children = append(children, p.bump())
		}
	}
}

func (p *parser) parseLet() *Node {
	children := []*Node{p.bump()} // let
	p.trivia(&children)
	if p.cur().Kind != token.Ident {
		return nil
	}
	children = append(children, p.bump())
	p.trivia(&children)
	if tok := p.cur(); tok.Kind != token.Operator || tok.Text != "=" {
		return nil
	}
	children = append(children, p.bump())
	p.trivia(&children)
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	children = append(children, expr)
	p.optionalSemi(&children)
	return newComposite(LetStmt, children)
}

func (p *parser) parseKeywordExpr(comp CompositeKind) *Node {
	children := []*Node{p.bump()} // play / return
	p.trivia(&children)
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	children = append(children, expr)
	p.optionalSemi(&children)
	return newComposite(comp, children)
}

func (p *parser) parsePause() *Node {
	children := []*Node{p.bump()}
	p.optionalSemi(&children)
	return newComposite(PauseStmt, children)
}

func (p *parser) parseFn() *Node {
	children := []*Node{p.bump()} // fn
	p.trivia(&children)
	if p.cur().Kind != token.Ident {
		return nil
	}
	children = append(children, p.bump())
	p.trivia(&children)
	params := p.parseParams()
	if params == nil {
		return nil
	}
	children = append(children, params)
	p.trivia(&children)
	if p.cur().Kind != token.LBrace {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	children = append(children, body)
	return newComposite(FnDecl, children)
}

// parseParams parses `(a, b, c)` into a ParamList. Commas are free-form
// like the rest of the grammar; only identifiers may appear between
// them.
func (p *parser) parseParams() *Node {
	if p.cur().Kind != token.LParen {
		return nil
	}
	children := []*Node{p.bump()}
	for {
		p.trivia(&children)
		switch p.cur().Kind {
		case token.Ident, token.Comma:
			children = append(children, p.bump())
		case token.RParen:
			children = append(children, p.bump())
			return newComposite(ParamList, children)
		default:
			return nil
		}
	}
}

// parseExprStmt parses a bare expression statement with an optional
// trailing semicolon.
func (p *parser) parseExprStmt() *Node {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	children := []*Node{expr}
	p.optionalSemi(&children)
	return newComposite(ExprStmt, children)
}

// optionalSemi consumes a trailing `;`, with any trivia before it, when
// present.
func (p *parser) optionalSemi(children *[]*Node) {
	save := p.pos
	var pending []*Node
	p.trivia(&pending)
	if p.cur().Kind == token.Semi {
		*children = append(*children, pending...)
		*children = append(*children, p.bump())
		return
	}
	p.pos = save
}

func canStartExpr(tok token.Token) bool {
	switch tok.Kind {
	case token.Ident, token.Number, token.String, token.Bool,
		token.MathConst, token.Widget, token.LParen, token.LBrace,
		token.Pipe:
		return true
	case token.Operator:
		return tok.Text == "+" || tok.Text == "-"
	}
	return false
}

// parseExpr parses `term ((+|-) term)*`, left associative.
func (p *parser) parseExpr() *Node {
	left := p.parseTerm()
	if left == nil {
		return nil
	}
	for {
		save := p.pos
		var pending []*Node
		p.trivia(&pending)
		if tok := p.cur(); tok.Kind != token.Operator || (tok.Text != "+" && tok.Text != "-") {
			p.pos = save
			return left
		}
		pending = append(pending, p.bump())
		p.trivia(&pending)
		right := p.parseTerm()
		if right == nil {
			return nil
		}
		children := append([]*Node{left}, pending...)
		children = append(children, right)
		left = newComposite(BinaryExpr, children)
	}
}

// parseTerm parses `unary ((*|/) unary)*`, binding tighter than + and -.
func (p *parser) parseTerm() *Node {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		save := p.pos
		var pending []*Node
		p.trivia(&pending)
		if tok := p.cur(); tok.Kind != token.Operator || (tok.Text != "*" && tok.Text != "/") {
			p.pos = save
			return left
		}
		pending = append(pending, p.bump())
		p.trivia(&pending)
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		children := append([]*Node{left}, pending...)
		children = append(children, right)
		left = newComposite(BinaryExpr, children)
	}
}

func (p *parser) parseUnary() *Node {
	if tok := p.cur(); tok.Kind == token.Operator && (tok.Text == "+" || tok.Text == "-") {
		children := []*Node{p.bump()}
		p.trivia(&children)
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		children = append(children, operand)
		return newComposite(UnaryExpr, children)
	}
	return p.parsePostfix()
}

// parsePostfix parses a factor followed by any number of member
// accesses, index expressions and calls.
func (p *parser) parsePostfix() *Node {
	base := p.parseFactor()
	if base == nil {
		return nil
	}
	for {
		save := p.pos
		var pending []*Node
		p.trivia(&pending)
		switch p.cur().Kind {
		case token.Dot:
			pending = append(pending, p.bump())
			p.trivia(&pending)
			if p.cur().Kind != token.Ident {
				return nil
			}
			pending = append(pending, p.bump())
			base = newComposite(MemberExpr, append([]*Node{base}, pending...))

		case token.LBracket:
			pending = append(pending, p.bump())
			p.trivia(&pending)
			idx := p.parseExpr()
			if idx == nil {
				return nil
			}
			pending = append(pending, idx)
			p.trivia(&pending)
			if p.cur().Kind != token.RBracket {
				return nil
			}
			pending = append(pending, p.bump())
			base = newComposite(IndexExpr, append([]*Node{base}, pending...))

		case token.LParen:
			pending = append(pending, p.bump())
			args := p.parseArgs(&pending)
			if !args {
				return nil
			}
			base = newComposite(CallExpr, append([]*Node{base}, pending...))

		default:
			p.pos = save
			return base
		}
	}
}

// parseArgs consumes call arguments after `(` up to and including the
// closing `)`. Commas are collected as they come; argument expressions
// may be separated by stray or missing commas, the structure survives
// either way.
func (p *parser) parseArgs(children *[]*Node) bool {
	for {
		p.trivia(children)
		switch tok := p.cur(); {
		case tok.Kind == token.RParen:
			*children = append(*children, p.bump())
			return true
		case tok.Kind == token.Comma:
			*children = append(*children, p.bump())
		case canStartExpr(tok):
			arg := p.parseExpr()
			if arg == nil {
				return false
			}
			*children = append(*children, arg)
		default:
			return false
		}
	}
}

func (p *parser) parseFactor() *Node {
	switch tok := p.cur(); tok.Kind {
	case token.Ident, token.String, token.Bool, token.MathConst, token.Widget:
		return p.bump()

	case token.Number:
		return p.parseNumber()

	case token.LParen:
		children := []*Node{p.bump()}
		p.trivia(&children)
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		children = append(children, expr)
		p.trivia(&children)
		if p.cur().Kind != token.RParen {
			return nil
		}
		children = append(children, p.bump())
		return newComposite(ParenExpr, children)

	case token.LBrace:
		return p.parseBlock()

	case token.Pipe:
		return p.parseLambda()
	}
	return nil
}

// parseNumber parses a number, grouping it with a following unit name
// into an Amount. The unit comes off the lexer as a plain identifier and
// is re-kinded here.
func (p *parser) parseNumber() *Node {
	num := p.bump()
	save := p.pos
	var pending []*Node
	p.trivia(&pending)
	if tok := p.cur(); tok.Kind == token.Ident && token.UnitName(tok.Text) {
		unit := p.bump()
		unit.Tok.Kind = token.Unit
		children := append([]*Node{num}, pending...)
		children = append(children, unit)
		return newComposite(Amount, children)
	}
	p.pos = save
	return num
}

// parseBlock parses `{ statements }`. Statements inside recover from
// errors on their own; only a missing closing brace fails the block.
func (p *parser) parseBlock() *Node {
	if p.cur().Kind != token.LBrace {
		return nil
	}
	children := []*Node{p.bump()}
	for {
		p.trivia(&children)
		switch p.cur().Kind {
		case token.RBrace:
			children = append(children, p.bump())
			return newComposite(Block, children)
		case token.EOF:
			return nil
		default:
			children = append(children, p.parseStatement())
		}
	}
}

// parseLambda parses `|a, b| body`.
func (p *parser) parseLambda() *Node {
	children := []*Node{p.bump()} // opening |
	for {
		p.trivia(&children)
		switch p.cur().Kind {
		case token.Ident, token.Comma:
			children = append(children, p.bump())
			continue
		case token.Pipe:
			children = append(children, p.bump())
		default:
			return nil
		}
		break
	}
	p.trivia(&children)
	body := p.parseExpr()
	if body == nil {
		return nil
	}
	children = append(children, body)
	return newComposite(Lambda, children)
}

// lexAll tokenizes the whole snapshot.
func lexAll(snap *buffer.Snapshot) []token.Token {
	l := token.NewLexer(snap)
	var toks []token.Token
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// ParseFull parses the snapshot from scratch.
func ParseFull(snap *buffer.Snapshot) *Tree {
	p := newParser(lexAll(snap))
	root := newComposite(Document, p.parseNodes())
	root.Span = Range{Start: 0, End: snap.Len()}
	return &Tree{Root: root, Version: snap.Version(), Len: snap.Len()}
}
