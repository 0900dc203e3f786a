// Package layout is the renderer-facing read model. It projects the
// engine's current state into display-ready tokens and selection spans
// without ever blocking edits: everything works off an immutable buffer
// snapshot taken per call.
package layout

import (
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/kelleyvanevert/golive/internal/engine"
	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/lang/token"
)

// LayoutHint carries screen-independent display metadata for one token.
// Widths are terminal cells; the renderer applies fonts and styling.
type LayoutHint struct {
	// Width is the token's display width. Widgets report the width
	// registered with their placement, tabs count as the configured tab
	// width per tab.
	Width int

	// Start is the token's line/column position.
	Start buffer.Point

	// IsWidget marks a widget sentinel; Payload identifies the widget.
	IsWidget bool
	Payload  uuid.UUID
}

// VisibleToken pairs a lexed token with its layout hint.
type VisibleToken struct {
	Tok  token.Token
	Hint LayoutHint
}

// SelectionSpan is a selection in line/column form, for highlighting.
type SelectionSpan struct {
	Start, End buffer.Point
	Caret      bool
	Primary    bool
}

// View reads engine state for a renderer. Safe for concurrent use; each
// call sees one consistent document version.
type View struct {
	eng *engine.Engine
}

// NewView creates a read model over the engine.
func NewView(e *engine.Engine) *View {
	return &View{eng: e}
}

// VisibleTokens returns the tokens intersecting [r.Start, r.End) in
// document order, each with its layout hint. Lexing restarts at the
// line holding r.Start; strings and comments never span lines, so a
// line start is always a clean lexer boundary.
func (v *View) VisibleTokens(r engine.Range) []VisibleToken {
	snap := v.eng.Snapshot()
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > snap.Len() {
		end = snap.Len()
	}
	if start >= end {
		return nil
	}

	lineStart := snap.LineStartOffset(snap.OffsetToPoint(start).Line)
	lx := token.NewLexerAt(snap, lineStart)

	var out []VisibleToken
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF || tok.Start >= end {
			break
		}
		if tok.End() <= start {
			continue
		}
		out = append(out, VisibleToken{Tok: tok, Hint: v.hint(snap, tok)})
	}
	return out
}

func (v *View) hint(snap *buffer.Snapshot, tok token.Token) LayoutHint {
	h := LayoutHint{Start: snap.OffsetToPoint(tok.Start)}
	if tok.Kind == token.Widget {
		h.IsWidget = true
		h.Width = 1
		if p, ok := snap.WidgetAt(tok.Start); ok {
			h.Payload = p.Payload
			if p.Width > 0 {
				h.Width = p.Width
			}
		}
		return h
	}
	h.Width = displayWidth(tok.Text, snap.TabWidth())
	return h
}

// displayWidth sums rune cell widths, counting each tab as a full tab
// stop. Column-exact tab expansion is the renderer's job.
func displayWidth(s string, tabWidth int) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

// Selections returns the current selections as line/column spans,
// ascending, with the most recently placed one marked primary.
func (v *View) Selections() []SelectionSpan {
	snap := v.eng.Snapshot()
	sels := v.eng.Selections()
	primary := v.eng.Primary()

	out := make([]SelectionSpan, len(sels))
	for i, sel := range sels {
		out[i] = SelectionSpan{
			Start:   snap.OffsetToPoint(sel.Start()),
			End:     snap.OffsetToPoint(sel.End()),
			Caret:   sel.IsCaret(),
			Primary: sel.ID == primary.ID,
		}
	}
	return out
}
