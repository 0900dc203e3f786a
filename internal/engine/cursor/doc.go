// Package cursor implements multi-cursor selection state.
//
// A Selection is an (anchor, head) pair of byte offsets; the anchor is the
// fixed end and the head is the end that moves. A Set keeps selections
// ordered left to right and non-overlapping, merging any that touch. Each
// selection carries an ID assigned by its Set in insertion order; when two
// selections merge, the more recently added one decides which end of the
// merged selection is the anchor.
//
// Edit fan-out lives here too: ComputeEdits builds one edit per selection
// against a pre-edit snapshot, so every cursor sees the same starting
// document, and returns them in ascending order for a single batched
// commit.
package cursor
