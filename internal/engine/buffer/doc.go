// Package buffer wraps a rope with the document-level editing API.
//
// A Buffer validates offsets and ranges before touching the rope, tracks a
// monotonically increasing version, and owns the widget side table: inline
// widgets occupy exactly one sentinel rune (U+FFFC) in the text, with their
// payload IDs kept out of band and remapped through every edit batch.
//
// All methods are safe for concurrent use. Reads operate on immutable rope
// snapshots, so a Snapshot taken under load never observes a half-applied
// edit batch.
package buffer
