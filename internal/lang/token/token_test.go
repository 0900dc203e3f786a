package token

import (
	"strings"
	"testing"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(buffer.SnapshotOf(src))
	var out []Token
	for {
		tok := l.Next()
		if tok.Kind == EOF {
			return out
		}
		out = append(out, tok)
	}
}

func kindsOf(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []Kind
	}{
		{"let x = 4;", []Kind{Keyword, Whitespace, Ident, Whitespace, Operator, Whitespace, Number, Semi}},
		{"play osc(440hz);", []Kind{Keyword, Whitespace, Ident, LParen, Number, Ident, RParen, Semi}},
		{"a + b * 2", []Kind{Ident, Whitespace, Operator, Whitespace, Ident, Whitespace, Operator, Whitespace, Number}},
		{"// comment\nx", []Kind{Comment, Whitespace, Ident}},
		{"true pi tau false", []Kind{Bool, Whitespace, MathConst, Whitespace, MathConst, Whitespace, Bool}},
		{"|a, b| a", []Kind{Pipe, Ident, Comma, Whitespace, Ident, Pipe, Whitespace, Ident}},
		{"hi.there[4]", []Kind{Ident, Dot, Ident, LBracket, Number, RBracket}},
		{"{ return 1; }", []Kind{LBrace, Whitespace, Keyword, Whitespace, Number, Semi, Whitespace, RBrace}},
	}
	for _, tt := range tests {
		got := kindsOf(lexAll(t, tt.src))
		if len(got) != len(tt.want) {
			t.Errorf("%q: kinds = %v, want %v", tt.src, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: token %d = %v, want %v", tt.src, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"3.14", "3.14"},
		{".5", ".5"},
		{"4.", "4."},
		{"1_000", "1_000"},
		{"4.2.3", "4.2"}, // second dot ends the number
	}
	for _, tt := range tests {
		toks := lexAll(t, tt.src)
		if len(toks) == 0 || toks[0].Kind != Number || toks[0].Text != tt.want {
			t.Errorf("%q: first token = %v, want Number %q", tt.src, toks, tt.want)
		}
	}
}

func TestLexStrings(t *testing.T) {
	toks := lexAll(t, `"hello \" there"`)
	if len(toks) != 1 || toks[0].Kind != String || toks[0].Text != `"hello \" there"` {
		t.Errorf("escaped string: %v", toks)
	}

	// Unterminated strings stop at end of line.
	toks = lexAll(t, "\"open\nx")
	if toks[0].Kind != String || toks[0].Text != `"open` {
		t.Errorf("unterminated string: %v", toks)
	}
	if toks[2].Kind != Ident {
		t.Errorf("lexing should continue on the next line: %v", toks)
	}
}

func TestLexWidgetRune(t *testing.T) {
	toks := lexAll(t, "a￼b")
	want := []Kind{Ident, Widget, Ident}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d = %v, want %v", i, toks[i], k)
		}
	}
	if toks[1].Len() != buffer.WidgetRuneLen {
		t.Errorf("widget token length = %d", toks[1].Len())
	}
}

func TestLexErrorRunes(t *testing.T) {
	toks := lexAll(t, "a # € b")
	var errs []Token
	for _, tok := range toks {
		if tok.Kind == Error {
			errs = append(errs, tok)
		}
	}
	if len(errs) != 2 {
		t.Fatalf("error tokens = %v", errs)
	}
	if errs[0].Text != "#" || errs[1].Text != "€" {
		t.Errorf("error tokens = %v", errs)
	}
}

func TestLexLossless(t *testing.T) {
	srcs := []string{
		"let freq = 440hz;\nplay osc(freq) * 0.5;\n",
		"fn adsr(a, d, s, r) { 1 }\n// trailing comment",
		"broken ?? input \"unterminated\nnext line",
		"",
	}
	for _, src := range srcs {
		var sb strings.Builder
		for _, tok := range lexAll(t, src) {
			sb.WriteString(tok.Text)
		}
		if sb.String() != src {
			t.Errorf("concatenated tokens = %q, want %q", sb.String(), src)
		}
	}
}

func TestLexerRestartsMidDocument(t *testing.T) {
	src := "let x = 4;\nplay y;"
	snap := buffer.SnapshotOf(src)
	l := NewLexerAt(snap, 11)
	tok := l.Next()
	if tok.Kind != Keyword || tok.Text != "play" || tok.Start != 11 {
		t.Errorf("first token from offset 11 = %v", tok)
	}
}

func TestUnitName(t *testing.T) {
	for _, u := range []string{"hz", "khz", "ms", "s", "min"} {
		if !UnitName(u) {
			t.Errorf("UnitName(%q) = false", u)
		}
	}
	if UnitName("m") || UnitName("sec") {
		t.Error("non-units accepted")
	}
}
