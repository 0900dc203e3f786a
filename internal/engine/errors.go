package engine

import (
	"errors"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/engine/cursor"
	"github.com/kelleyvanevert/golive/internal/engine/history"
	"github.com/kelleyvanevert/golive/internal/engine/tracking"
)

// Errors returned by engine operations. The buffer, cursor and history
// sentinels are re-exported so callers can match with errors.Is without
// importing the sub-packages.
var (
	// ErrReadOnly indicates a write was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrUnusable indicates the document has been poisoned by an internal
	// consistency failure and no longer accepts actions.
	ErrUnusable = errors.New("document is unusable")

	// ErrOffsetOutOfRange indicates an offset outside the document.
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates a range with end before start.
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrEditsOverlap indicates a batch that is not ascending and disjoint.
	ErrEditsOverlap = buffer.ErrEditsOverlap

	// ErrOverlappingEdits indicates a fan-out produced colliding edits.
	ErrOverlappingEdits = cursor.ErrOverlappingEdits

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrLengthMismatch indicates tracker and buffer disagree on length.
	ErrLengthMismatch = tracking.ErrLengthMismatch
)
