// Package history provides undo/redo for buffer edits.
//
// One Record captures one committed edit batch: the edits as applied, the
// text each one replaced, any widget placements the batch removed, and
// the selections before and after. Undoing a multi-cursor batch therefore
// reverts every cursor's edit at once and puts the cursors back where
// they were.
//
// Records invert cleanly: the inverse of a batch is the batch of inverse
// edits expressed in post-edit coordinates, applied in one commit. The
// History stack stores records and replays them against the buffer.
package history
