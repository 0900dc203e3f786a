package engine

import (
	"sync"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
	"github.com/kelleyvanevert/golive/internal/lang/syntax"
)

// damage is the edited region since the last published parse, kept in
// that parse's coordinates. Batches that land while a background parse
// is in flight are folded in, so a retry covers everything at once.
type damage struct {
	lo    int // first changed offset, old coordinates
	hiOld int // end of the changed region, old coordinates
	delta int // length change across all folded batches
	valid bool
}

// extend folds one ascending batch into the damage. The batch is in
// current document coordinates; positions outside the damaged region map
// back to old coordinates by identity (before) or by subtracting the
// accumulated delta (after).
func (d *damage) extend(edits []Edit) {
	if len(edits) == 0 {
		return
	}
	lo := edits[0].Range.Start
	hi := edits[0].Range.End
	total := 0
	for _, e := range edits {
		if e.Range.End > hi {
			hi = e.Range.End
		}
		total += e.Delta()
	}
	if !d.valid {
		d.lo, d.hiOld, d.delta, d.valid = lo, hi, total, true
		return
	}
	if lo < d.lo {
		d.lo = lo
	}
	if hi >= d.hiOld+d.delta {
		if old := hi - d.delta; old > d.hiOld {
			d.hiOld = old
		}
	}
	d.delta += total
}

// edits expresses the damage as a single replace against the old
// document, with the replacement text read from the current snapshot.
func (d *damage) edits(snap *buffer.Snapshot) []Edit {
	if !d.valid {
		return nil
	}
	newEnd := d.hiOld + d.delta
	return []Edit{{
		Range:   Range{Start: d.lo, End: d.hiOld},
		NewText: snap.TextRange(d.lo, newEnd),
	}}
}

// scheduleReparseLocked reparses inline, or kicks the background worker
// when async reparsing is on. Callers hold the write lock.
func (e *Engine) scheduleReparseLocked() {
	if e.reparse != nil {
		e.reparse.wake()
		return
	}
	snap := e.buf.Snapshot()
	e.tree = syntax.Parse(snap, e.tree, e.damage.edits(snap))
	e.damage = damage{}
}

// publishTree installs a parse result if the document has not moved on.
func (e *Engine) publishTree(snap *buffer.Snapshot, tree *syntax.Tree) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf.Version() != snap.Version() {
		e.logger.Printf("engine: discarding stale parse of version %d, document at %d",
			snap.Version(), e.buf.Version())
		return false
	}
	e.tree = tree
	e.damage = damage{}
	return true
}

// reparser parses on its own goroutine. Each kick picks up the latest
// snapshot and the combined damage; a result superseded by newer edits
// is discarded and the next kick covers the larger region. In-flight
// parses are never cancelled, only abandoned.
type reparser struct {
	e    *Engine
	kick chan struct{} // capacity 1, coalesces pending requests
	done chan struct{}
	wg   sync.WaitGroup
}

func newReparser(e *Engine) *reparser {
	r := &reparser{
		e:    e,
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

func (r *reparser) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case <-r.kick:
		}

		r.e.mu.RLock()
		snap := r.e.buf.Snapshot()
		prev := r.e.tree
		edits := r.e.damage.edits(snap)
		r.e.mu.RUnlock()

		if prev != nil && len(edits) == 0 {
			continue
		}
		tree := syntax.Parse(snap, prev, edits)
		r.e.publishTree(snap, tree)
	}
}

// wake requests a parse without blocking; a request already pending
// covers this one too.
func (r *reparser) wake() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

func (r *reparser) stop() {
	close(r.done)
	r.wg.Wait()
}
