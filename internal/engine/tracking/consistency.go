package tracking

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch reports that the tracker's expected document length
// disagrees with the buffer's actual length. This is an internal bug, not
// a user error: the document must be reloaded, never repaired in place.
var ErrLengthMismatch = errors.New("tracker/buffer length mismatch")

// LengthTracker mirrors the buffer length through committed batches so
// that disagreement (a missed or double-applied batch) is caught at the
// commit boundary instead of corrupting positions silently.
type LengthTracker struct {
	length int
}

// NewLengthTracker starts tracking from the given document length.
func NewLengthTracker(length int) *LengthTracker {
	return &LengthTracker{length: length}
}

// Length returns the expected document length.
func (t *LengthTracker) Length() int { return t.length }

// Commit folds an edit batch into the expected length and verifies it
// against the buffer's reported post-commit length.
func (t *LengthTracker) Commit(edits []Edit, actualLength int) error {
	t.length += TotalDelta(edits)
	if t.length != actualLength {
		return fmt.Errorf("%w: expected %d, buffer reports %d",
			ErrLengthMismatch, t.length, actualLength)
	}
	return nil
}

// Reset re-seeds the tracker after a document load.
func (t *LengthTracker) Reset(length int) { t.length = length }
