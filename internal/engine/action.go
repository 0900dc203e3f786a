package engine

import "github.com/google/uuid"

// Direction selects a cursor motion.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
)

// Action is a closed set of editor commands handled by HandleAction.
// Every variant applies to all cursors at once unless noted otherwise.
type Action interface {
	isAction()
}

// InsertText types text at every cursor, replacing any selected extent.
type InsertText struct {
	Text string
}

// Paste inserts clipboard text. When the text has exactly as many lines
// as there are cursors, each cursor receives its own line; otherwise
// every cursor receives the whole text.
type Paste struct {
	Text string
}

// DeleteBackward deletes the selected extent, or one grapheme cluster
// before each caret.
type DeleteBackward struct{}

// DeleteForward deletes the selected extent, or one grapheme cluster
// after each caret.
type DeleteForward struct{}

// MoveCursor moves every cursor; Extend grows the selection instead of
// collapsing it.
type MoveCursor struct {
	Dir    Direction
	Extend bool
}

// AddCursorAt adds a caret at the given offset, keeping existing cursors.
type AddCursorAt struct {
	Offset int
}

// SelectWord expands every cursor to the word it touches.
type SelectWord struct{}

// SelectAll replaces all cursors with one selection spanning the document.
type SelectAll struct{}

// SetCursor replaces all cursors with a single selection.
type SetCursor struct {
	Anchor int
	Head   int
}

// InsertWidget inserts a widget sentinel at the primary cursor, replacing
// any selected extent. Width is the widget's display width in cells.
type InsertWidget struct {
	Payload uuid.UUID
	Width   int
}

// Undo reverts the most recent committed batch.
type Undo struct{}

// Redo reapplies the most recently undone batch.
type Redo struct{}

func (InsertText) isAction()     {}
func (Paste) isAction()          {}
func (DeleteBackward) isAction() {}
func (DeleteForward) isAction()  {}
func (MoveCursor) isAction()     {}
func (AddCursorAt) isAction()    {}
func (SelectWord) isAction()     {}
func (SelectAll) isAction()      {}
func (SetCursor) isAction()      {}
func (InsertWidget) isAction()   {}
func (Undo) isAction()           {}
func (Redo) isAction()           {}
