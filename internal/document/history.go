package document

import (
	"slices"

	"go.uber.org/zap"
)

// DefaultHistoryLimit is the number of snapshots kept when Options.HistoryLimit is unset.
const DefaultHistoryLimit = 50

// snapshot is a full deep copy of the undoable document state.
type snapshot struct {
	pages    []*Page
	settings PageSettings
	groups   map[string][]string
}

// history is a bounded linear list of snapshots. cursor indexes the snapshot matching the
// live state after the most recent commit, undo or redo.
type history struct {
	entries []snapshot
	cursor  int
	limit   int
}

func newHistory(limit int) *history {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &history{cursor: -1, limit: limit}
}

// push discards any redo branch, appends s and evicts the oldest entries over the limit.
func (h *history) push(s snapshot) {
	h.entries = append(h.entries[:h.cursor+1], s)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
	}
	h.cursor = len(h.entries) - 1
}

func (h *history) undo() (snapshot, bool) {
	if h.cursor <= 0 {
		return snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

func (h *history) redo() (snapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		return snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *history) reset() {
	h.entries = nil
	h.cursor = -1
}

func clonePages(pages []*Page) []*Page {
	out := make([]*Page, len(pages))
	for i, p := range pages {
		out[i] = p.Clone()
	}
	return out
}

func cloneGroups(groups map[string][]string) map[string][]string {
	out := make(map[string][]string, len(groups))
	for gid, ids := range groups {
		out[gid] = slices.Clone(ids)
	}
	return out
}

func (d *Document) capture() snapshot {
	return snapshot{
		pages:    clonePages(d.pages),
		settings: d.settings,
		groups:   cloneGroups(d.groups),
	}
}

// restore replaces live state with a deep copy of s so later edits never reach history.
func (d *Document) restore(s snapshot) {
	d.pages = clonePages(s.pages)
	d.settings = s.settings
	d.groups = cloneGroups(s.groups)
	if d.active >= len(d.pages) {
		d.active = len(d.pages) - 1
	}
	d.filterSelection()
}

// Commit records the live state as a new undo step. Inside Batch the commit is deferred
// until the outermost batch returns.
func (d *Document) Commit() {
	if d.batchDepth > 0 {
		d.batchDirty = true
		return
	}
	d.hist.push(d.capture())
	d.log.Debug("history commit", zap.Int("entries", len(d.hist.entries)), zap.Int("cursor", d.hist.cursor))
}

// Batch runs fn and folds every commit it issues into a single undo step.
func (d *Document) Batch(fn func()) {
	d.batchDepth++
	defer func() {
		d.batchDepth--
		if d.batchDepth == 0 && d.batchDirty {
			d.batchDirty = false
			d.Commit()
		}
	}()
	fn()
}

// Undo restores the previous snapshot. It returns false when there is nothing to undo.
func (d *Document) Undo() bool {
	s, ok := d.hist.undo()
	if !ok {
		return false
	}
	d.restore(s)
	d.log.Debug("undo", zap.Int("cursor", d.hist.cursor))
	return true
}

// Redo re-applies the next snapshot. It returns false when there is nothing to redo.
func (d *Document) Redo() bool {
	s, ok := d.hist.redo()
	if !ok {
		return false
	}
	d.restore(s)
	d.log.Debug("redo", zap.Int("cursor", d.hist.cursor))
	return true
}

// CanUndo reports whether Undo would change the document.
func (d *Document) CanUndo() bool { return d.hist.cursor > 0 }

// CanRedo reports whether Redo would change the document.
func (d *Document) CanRedo() bool { return d.hist.cursor < len(d.hist.entries)-1 }

// HistoryLen returns the number of stored snapshots.
func (d *Document) HistoryLen() int { return len(d.hist.entries) }
