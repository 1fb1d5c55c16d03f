package app

import (
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"docstudio/internal/document"
	"docstudio/internal/logger"
	"docstudio/internal/workspace"
)

// ErrNoWorkspace is returned by workspace calls before a workspace is open.
var ErrNoWorkspace = errors.New("no workspace is open")

// thumbnailWidth is the width of the stored first-page preview.
const thumbnailWidth = 240

// OpenWorkspace opens (or creates) the workspace file at path, closing the current one.
func (a *App) OpenWorkspace(path string) (string, error) {
	wsID, _, err := a.workspaces.OpenOrCreate(path)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	prev := a.wsID
	a.wsID = wsID
	a.mu.Unlock()
	if prev != "" {
		if err := a.workspaces.CloseWorkspace(prev); err != nil {
			a.log.Warn("closing previous workspace", zap.Error(err))
		}
	}
	return wsID, nil
}

// WorkspacePath returns the file path of the open workspace, or "".
func (a *App) WorkspacePath() string {
	repo, err := a.repo()
	if err != nil {
		return ""
	}
	return repo.FilePath()
}

func (a *App) repo() (*workspace.WorkspaceRepo, error) {
	a.mu.Lock()
	wsID := a.wsID
	a.mu.Unlock()
	if repo := a.workspaces.GetRepo(wsID); repo != nil {
		return repo, nil
	}
	return nil, ErrNoWorkspace
}

// WorkspaceSettings returns the settings of the open workspace.
func (a *App) WorkspaceSettings() (workspace.WorkspaceSettings, error) {
	repo, err := a.repo()
	if err != nil {
		return workspace.WorkspaceSettings{}, err
	}
	return repo.GetAllSettings()
}

// SaveWorkspaceSettings writes the settings of the open workspace.
func (a *App) SaveWorkspaceSettings(s workspace.WorkspaceSettings) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	return repo.SaveAllSettings(s)
}

// ListDocuments lists the documents stored in the open workspace.
func (a *App) ListDocuments() ([]workspace.DocumentSummary, error) {
	repo, err := a.repo()
	if err != nil {
		return nil, err
	}
	return repo.ListDocuments()
}

// SaveToWorkspace stores the open document and its first-page thumbnail, and drops its
// autosave entry. It returns the stored version.
func (a *App) SaveToWorkspace() (int, error) {
	repo, err := a.repo()
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	snapshot, err := a.doc.Serialize()
	if err != nil {
		a.mu.Unlock()
		return 0, err
	}
	rec := workspace.DocumentRecord{ID: a.docID, Title: a.title, Snapshot: snapshot, ViewportZoom: a.ctrl.Zoom()}
	a.mu.Unlock()

	id, version, err := repo.SaveDocument(rec)
	if err != nil {
		return 0, fmt.Errorf("save to workspace: %w", err)
	}
	if png, err := a.thumbnail(0, thumbnailWidth); err == nil {
		if err := repo.SaveThumbnail(id, png); err != nil {
			a.log.Warn("saving thumbnail", zap.String("document", id), zap.Error(err))
		}
	}

	a.mu.Lock()
	a.saved = snapshot
	a.mu.Unlock()
	a.discardAutosave(id)
	a.log.Info("document saved", zap.String("document", id), zap.Int("version", version))
	return version, nil
}

// LoadFromWorkspace opens a stored document.
func (a *App) LoadFromWorkspace(id string) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	rec, err := repo.GetDocument(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("document %s not found", id)
	}
	doc := document.New(a.cfg.DocumentOptions(logger.Named(a.log, "document")))
	if err := doc.Deserialize(rec.Snapshot); err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetDocument(rec.ID, rec.Title, doc)
	a.ctrl.SetZoom(rec.ViewportZoom)
	a.emit(EventChanged)
	return nil
}

// DocumentThumbnail returns the stored base64 PNG preview of a workspace document, or "".
func (a *App) DocumentThumbnail(id string) (string, error) {
	repo, err := a.repo()
	if err != nil {
		return "", err
	}
	png, err := repo.GetThumbnail(id)
	if err != nil || png == nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// RenameDocument changes the title of a stored document (and of the open one when it matches).
func (a *App) RenameDocument(id, title string) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	if err := repo.RenameDocument(id, title); err != nil {
		return err
	}
	a.mu.Lock()
	if a.docID == id {
		a.title = title
	}
	a.mu.Unlock()
	return nil
}

// DeleteDocument removes a stored document.
func (a *App) DeleteDocument(id string) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	return repo.DeleteDocument(id)
}

// MigrateFolder imports a folder of standalone document files into a new workspace file
// and opens it.
func (a *App) MigrateFolder(folder, newFilePath string) (workspace.MigrationResult, error) {
	result, err := workspace.MigrateFolder(folder, newFilePath)
	if err != nil {
		return result, err
	}
	if _, err := a.OpenWorkspace(newFilePath); err != nil {
		return result, err
	}
	a.log.Info("folder migrated",
		zap.String("from", folder),
		zap.Int("documents", result.DocumentsImported),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}
