package history

import (
	"errors"
	"sync"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History manages the undo and redo stacks for one buffer.
type History struct {
	mu sync.Mutex

	undoStack []*Record
	redoStack []*Record

	maxEntries int
}

// New creates a history keeping at most maxEntries undo records.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{maxEntries: maxEntries}
}

// Push records a freshly committed batch and clears the redo stack.
func (h *History) Push(rec *Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, rec)
	h.redoStack = nil
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent record on buf and returns it so the
// caller can restore its pre-edit selections.
func (h *History) Undo(buf *buffer.Buffer) (*Record, error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	rec := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	// Apply without holding the lock.
	if err := rec.Undo(buf); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, rec)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, rec)
	h.mu.Unlock()
	return rec, nil
}

// Redo reapplies the most recently undone record on buf and returns it
// so the caller can restore its post-edit selections.
func (h *History) Redo(buf *buffer.Buffer) (*Record, error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	rec := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := rec.Redo(buf); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, rec)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, rec)
	h.mu.Unlock()
	return rec, nil
}

// CanUndo reports whether an undo record is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo reports whether a redo record is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo records.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo records.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear drops all history, as on document switch.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}
