package history

import (
	"time"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/engine/cursor"
)

// Edit, Range and Selection are aliases for the engine types, for
// convenience.
type (
	Edit      = buffer.Edit
	Range     = buffer.Range
	Selection = cursor.Selection
)

// Record captures one committed edit batch so it can be undone and
// redone as a unit.
type Record struct {
	// Edits as applied, ascending, in pre-edit coordinates.
	Edits []Edit
	// OldText holds the text each edit replaced, index-aligned with
	// Edits.
	OldText []string
	// RemovedWidgets are placements whose sentinels sat inside deleted
	// ranges, at their pre-edit offsets.
	RemovedWidgets []buffer.Placement
	// AddedWidgets are placements the batch introduced, at their
	// post-edit offsets. Redo re-registers them after reinserting the
	// sentinel text.
	AddedWidgets []buffer.Placement

	SelectionsBefore []Selection
	SelectionsAfter  []Selection

	Timestamp time.Time
}

// NewRecord snapshots what an edit batch is about to destroy. It must be
// called with the pre-edit snapshot, before the batch is committed.
func NewRecord(snap *buffer.Snapshot, edits []Edit, before []Selection) *Record {
	rec := &Record{
		Edits:            append([]Edit(nil), edits...),
		OldText:          make([]string, len(edits)),
		SelectionsBefore: append([]Selection(nil), before...),
		Timestamp:        time.Now(),
	}
	for i, e := range edits {
		rec.OldText[i] = snap.TextRange(e.Range.Start, e.Range.End)
	}
	for _, p := range snap.Widgets() {
		for _, e := range edits {
			if p.Offset >= e.Range.Start && p.Offset < e.Range.End {
				rec.RemovedWidgets = append(rec.RemovedWidgets, p)
				break
			}
		}
	}
	return rec
}

// Finish stores the post-edit selections.
func (r *Record) Finish(after []Selection) {
	r.SelectionsAfter = append([]Selection(nil), after...)
}

// InverseEdits returns the batch that reverts this record, expressed in
// post-edit coordinates and ascending like any other batch.
func (r *Record) InverseEdits() []Edit {
	inv := make([]Edit, len(r.Edits))
	delta := 0
	for i, e := range r.Edits {
		start := e.Range.Start + delta
		inv[i] = buffer.NewReplace(start, start+len(e.NewText), r.OldText[i])
		delta += e.Delta()
	}
	return inv
}

// Delta returns the record's overall length change.
func (r *Record) Delta() int {
	total := 0
	for _, e := range r.Edits {
		total += e.Delta()
	}
	return total
}

// Undo reverts the record's batch on buf and re-registers any widget
// placements the batch had removed.
func (r *Record) Undo(buf *buffer.Buffer) error {
	if err := buf.ApplyEdits(r.InverseEdits()); err != nil {
		return err
	}
	for _, p := range r.RemovedWidgets {
		if err := buf.RestoreWidget(p); err != nil {
			return err
		}
	}
	return nil
}

// Redo reapplies the record's batch on buf, including any widget
// placements the batch introduced.
func (r *Record) Redo(buf *buffer.Buffer) error {
	if err := buf.ApplyEdits(r.Edits); err != nil {
		return err
	}
	for _, p := range r.AddedWidgets {
		if err := buf.RestoreWidget(p); err != nil {
			return err
		}
	}
	return nil
}
