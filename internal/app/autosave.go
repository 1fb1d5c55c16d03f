package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docstudio/internal/autosave"
)

// recoveryRetention is how long autosave entries survive before startup cleanup drops them.
const recoveryRetention = 7 * 24 * time.Hour

// StartAutosave opens the recovery store and snapshots the open document on every
// interval tick while it has unsaved changes. The loop stops with ctx or StopAutosave.
func (a *App) StartAutosave(ctx context.Context) error {
	store, err := autosave.Open(a.cfg.Autosave.Path)
	if err != nil {
		return err
	}
	if n, err := store.Cleanup(time.Now().Add(-recoveryRetention)); err != nil {
		a.log.Warn("autosave cleanup", zap.Error(err))
	} else if n > 0 {
		a.log.Info("autosave cleanup", zap.Int("removed", n))
	}

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.autosave = store
	a.stopAutosave = cancel
	a.mu.Unlock()

	go a.autosaveLoop(ctx, a.cfg.Autosave.Interval)
	return nil
}

func (a *App) autosaveLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.AutosaveNow(); err != nil {
				a.log.Warn("autosave failed", zap.Error(err))
			}
		}
	}
}

// StopAutosave stops the loop and closes the recovery store.
func (a *App) StopAutosave() {
	a.mu.Lock()
	store, cancel := a.autosave, a.stopAutosave
	a.autosave, a.stopAutosave = nil, nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if store != nil {
		if err := store.Close(); err != nil {
			a.log.Warn("closing autosave store", zap.Error(err))
		}
	}
}

// AutosaveNow writes a recovery snapshot when the open document has unsaved changes.
func (a *App) AutosaveNow() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.autosave == nil {
		return nil
	}
	snapshot, err := a.doc.Serialize()
	if err != nil || snapshot == a.saved {
		return err
	}
	if err := a.autosave.Put(a.docID, a.title, snapshot); err != nil {
		return err
	}
	a.log.Debug("autosaved", zap.String("document", a.docID))
	return nil
}

// RecoverableDocuments lists the autosave entries, newest first.
func (a *App) RecoverableDocuments() ([]autosave.Entry, error) {
	a.mu.Lock()
	store := a.autosave
	a.mu.Unlock()
	if store == nil {
		return nil, nil
	}
	return store.List()
}

// RecoverDocument opens the autosaved snapshot of a document. The recovered document
// stays dirty until it is saved.
func (a *App) RecoverDocument(id string) error {
	a.mu.Lock()
	store := a.autosave
	a.mu.Unlock()
	if store == nil {
		return autosave.ErrNotFound
	}
	entry, err := store.Get(id)
	if err != nil {
		return err
	}
	if err := a.OpenDocument(entry.DocumentID, entry.Title, entry.Snapshot); err != nil {
		return err
	}
	a.mu.Lock()
	a.saved = ""
	a.mu.Unlock()
	return nil
}

// DiscardRecovery drops the autosave entry of a document.
func (a *App) DiscardRecovery(id string) {
	a.discardAutosave(id)
}

func (a *App) discardAutosave(id string) {
	a.mu.Lock()
	store := a.autosave
	a.mu.Unlock()
	if store == nil {
		return
	}
	if err := store.Delete(id); err != nil {
		a.log.Warn("discarding autosave", zap.String("document", id), zap.Error(err))
	}
}
