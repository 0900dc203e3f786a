// Package rope implements an immutable rope for text storage.
//
// A Rope is a persistent B+ tree whose leaves hold small immutable string
// chunks. All operations return new Rope values and share structure with
// the original, so snapshots are O(1) and safe to read from any goroutine
// while the document keeps being edited.
//
// Offsets are byte offsets and must land on UTF-8 boundaries; the chunking
// code never splits a multi-byte sequence.
package rope
