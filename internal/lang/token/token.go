package token

import "fmt"

// Kind classifies a lexical token.
type Kind uint8

const (
	EOF Kind = iota
	Whitespace
	Comment

	Ident
	Keyword
	Number
	Unit
	String
	Bool
	MathConst

	Operator // one of + - * / =
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Dot
	Semi
	Pipe

	Widget

	// Error marks a single rune the lexer could not classify.
	Error
)

var kindNames = [...]string{
	EOF:        "EOF",
	Whitespace: "Whitespace",
	Comment:    "Comment",
	Ident:      "Ident",
	Keyword:    "Keyword",
	Number:     "Number",
	Unit:       "Unit",
	String:     "String",
	Bool:       "Bool",
	MathConst:  "MathConst",
	Operator:   "Operator",
	LParen:     "LParen",
	RParen:     "RParen",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	Comma:      "Comma",
	Dot:        "Dot",
	Semi:       "Semi",
	Pipe:       "Pipe",
	Widget:     "Widget",
	Error:      "Error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsTrivia reports whether the kind carries no syntactic weight.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// Token is one lexeme with its source text and position.
type Token struct {
	Kind  Kind
	Start int
	Text  string
}

// End returns the offset just past the token.
func (t Token) End() int { return t.Start + len(t.Text) }

// Len returns the token's byte length.
func (t Token) Len() int { return len(t.Text) }

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Start)
}

// Keywords of the sound DSL.
var keywords = map[string]bool{
	"let":    true,
	"fn":     true,
	"return": true,
	"play":   true,
	"pause":  true,
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool { return keywords[s] }

// Unit suffixes accepted after a number, longest first so "ms" wins
// over "m"+"s" and "khz" over "k"+"hz".
var units = []string{"min", "khz", "ms", "hz", "s"}

// UnitName reports whether s names a quantity unit.
func UnitName(s string) bool {
	for _, u := range units {
		if s == u {
			return true
		}
	}
	return false
}
