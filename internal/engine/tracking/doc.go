// Package tracking remaps logical positions through committed edit
// batches.
//
// A committed batch is described as edits sorted ascending by original
// offset and non-overlapping. Remapping follows three rules: a position
// strictly before an edit's start is unchanged; a position at or after an
// edit's end shifts by the cumulative length delta of all edits before
// it; a position strictly inside a removed range collapses to that edit's
// start. Positions that collapse lose distinctness, because the text that
// separated them no longer exists.
//
// The Remapper processes any number of ascending positions in a single
// pass over the edit list, so remapping n positions through m edits is
// O(n + m), not O(n * m).
package tracking
