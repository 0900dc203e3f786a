// Package engine is the editing core: it coordinates the buffer, the
// selection set, undo history and the incremental parser behind a single
// thread-safe facade.
//
// The engine is built on several sub-packages:
//
//   - rope: persistent B+ tree rope for text storage
//   - buffer: document state (rope + widget placements), versioned edits
//   - cursor: multi-cursor selections, motion and edit fan-out
//   - history: batch-level undo/redo records
//   - tracking: position remapping and length consistency checks
//
// All mutation goes through HandleAction. An action is fanned out over
// the selections, validated, committed to the buffer as one ascending
// batch, and then every position holder (selections, widget placements,
// the syntax tree) is remapped through that same batch.
// The parser runs incrementally after each commit, either inline or on a
// background goroutine that discards results superseded by newer edits.
//
// Structural errors (out-of-range offsets, overlapping fan-out edits)
// fail only the action that caused them; the document is untouched. A
// length-consistency failure means internal state has diverged and marks
// the document unusable.
package engine
