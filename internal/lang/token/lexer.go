package token

import (
	"strings"
	"unicode"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/engine/rope"
)

// Lexer produces tokens lazily from a buffer snapshot. It can be started
// at any rune boundary, which is what incremental reparsing does to pick
// up mid-document.
//
// The lexer never fails: runes it cannot classify come out as
// single-rune Error tokens and scanning continues.
type Lexer struct {
	it *rope.RuneIterator

	// one-rune lookahead
	r    rune
	size int
	off  int
}

// NewLexer starts lexing at the beginning of the snapshot.
func NewLexer(snap *buffer.Snapshot) *Lexer {
	return NewLexerAt(snap, 0)
}

// NewLexerAt starts lexing at offset, which must be a rune boundary.
func NewLexerAt(snap *buffer.Snapshot, offset int) *Lexer {
	l := &Lexer{it: snap.RunesAt(offset), off: offset}
	l.r, l.size = l.it.Next()
	return l
}

// advance consumes the lookahead rune into sb and loads the next one.
func (l *Lexer) advance(sb *strings.Builder) {
	sb.WriteRune(l.r)
	l.off += l.size
	l.r, l.size = l.it.Next()
}

func (l *Lexer) atEOF() bool { return l.size == 0 }

// Next returns the next token. After the last token it returns EOF
// forever.
func (l *Lexer) Next() Token {
	start := l.off
	if l.atEOF() {
		return Token{Kind: EOF, Start: start}
	}

	var sb strings.Builder
	switch {
	case unicode.IsSpace(l.r):
		for !l.atEOF() && unicode.IsSpace(l.r) {
			l.advance(&sb)
		}
		return Token{Kind: Whitespace, Start: start, Text: sb.String()}

	case l.r == '/' && l.peekIsCommentStart():
		for !l.atEOF() && l.r != '\n' {
			l.advance(&sb)
		}
		return Token{Kind: Comment, Start: start, Text: sb.String()}

	case l.r == buffer.WidgetRune:
		l.advance(&sb)
		return Token{Kind: Widget, Start: start, Text: sb.String()}

	case l.r == '_' || unicode.IsLetter(l.r):
		for !l.atEOF() && (l.r == '_' || unicode.IsLetter(l.r) || unicode.IsDigit(l.r)) {
			l.advance(&sb)
		}
		return Token{Kind: identKind(sb.String()), Start: start, Text: sb.String()}

	case l.r >= '0' && l.r <= '9':
		return l.scanNumber(start, &sb)

	case l.r == '.':
		l.advance(&sb)
		if !l.atEOF() && l.r >= '0' && l.r <= '9' {
			return l.scanNumber(start, &sb)
		}
		return Token{Kind: Dot, Start: start, Text: sb.String()}

	case l.r == '"':
		return l.scanString(start, &sb)
	}

	kind := punctKind(l.r)
	l.advance(&sb)
	return Token{Kind: kind, Start: start, Text: sb.String()}
}

// peekIsCommentStart reports whether the rune after the current '/' is
// another '/'.
func (l *Lexer) peekIsCommentStart() bool {
	r, size := l.it.Peek()
	return size > 0 && r == '/'
}

// scanNumber continues a number whose first rune (a digit, or a dot
// already followed by a digit) has been identified. Digits may use '_'
// separators; "4.", ".5" and "4.25" are all numbers.
func (l *Lexer) scanNumber(start int, sb *strings.Builder) Token {
	sawDot := strings.Contains(sb.String(), ".")
	for !l.atEOF() {
		switch {
		case l.r >= '0' && l.r <= '9' || l.r == '_':
			l.advance(sb)
		case l.r == '.' && !sawDot:
			sawDot = true
			l.advance(sb)
		default:
			return Token{Kind: Number, Start: start, Text: sb.String()}
		}
	}
	return Token{Kind: Number, Start: start, Text: sb.String()}
}

// scanString consumes a double-quoted string with backslash escapes. An
// unterminated string runs to the end of the line; the parser decides
// whether that is an error.
func (l *Lexer) scanString(start int, sb *strings.Builder) Token {
	l.advance(sb) // opening quote
	for !l.atEOF() && l.r != '\n' {
		if l.r == '\\' {
			l.advance(sb)
			if !l.atEOF() && l.r != '\n' {
				l.advance(sb)
			}
			continue
		}
		if l.r == '"' {
			l.advance(sb)
			return Token{Kind: String, Start: start, Text: sb.String()}
		}
		l.advance(sb)
	}
	return Token{Kind: String, Start: start, Text: sb.String()}
}

func identKind(s string) Kind {
	switch {
	case IsKeyword(s):
		return Keyword
	case s == "true" || s == "false":
		return Bool
	case s == "pi" || s == "tau":
		return MathConst
	default:
		return Ident
	}
}

func punctKind(r rune) Kind {
	switch r {
	case '+', '-', '*', '/', '=':
		return Operator
	case '(':
		return LParen
	case ')':
		return RParen
	case '[':
		return LBracket
	case ']':
		return RBracket
	case '{':
		return LBrace
	case '}':
		return RBrace
	case ',':
		return Comma
	case '.':
		return Dot
	case ';':
		return Semi
	case '|':
		return Pipe
	default:
		return Error
	}
}
