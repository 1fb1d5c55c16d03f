package app

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"docstudio/internal/autosave"
	"docstudio/internal/canvas"
	"docstudio/internal/config"
	"docstudio/internal/document"
	"docstudio/internal/logger"
	"docstudio/internal/workspace"
)

// Events emitted to the frontend.
const (
	EventStatus  = "editor:status"
	EventChanged = "editor:changed"
)

// App is the Wails-bound application: file I/O and dialogs plus the editor surface.
// Wails calls bound methods from multiple goroutines; mu serializes access to the
// document and its controller.
type App struct {
	ctx     context.Context
	version string
	cfg     *config.Config
	log     *zap.Logger

	mu    sync.Mutex
	docID string
	title string
	doc   *document.Document
	ctrl  *canvas.Controller
	saved string // snapshot at the last workspace save or autosave

	workspaces *workspace.WorkspaceManager
	wsID       string

	autosave     *autosave.Store
	stopAutosave context.CancelFunc

	// emit forwards an event to the frontend.
	emit func(name string, data ...any)
}

// NewApp returns a new App. version is the application version (e.g. "0.2.0").
// Call Startup with the Wails context before using dialogs.
func NewApp(version string, cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		version:    version,
		cfg:        cfg,
		log:        log,
		workspaces: workspace.NewManager(logger.Named(log, "workspace")),
	}
	a.emit = a.emitRuntime
	a.resetDocument(uuid.New().String(), "Untitled document", document.New(cfg.DocumentOptions(logger.Named(log, "document"))))
	return a
}

// Version returns the application version.
func (a *App) Version() string {
	return a.version
}

// Startup is called by Wails when the app starts; store context for dialogs and open the
// default workspace and autosave store.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	if _, err := a.OpenWorkspace(a.cfg.Workspace.Path); err != nil {
		a.log.Warn("default workspace unavailable", zap.String("path", a.cfg.Workspace.Path), zap.Error(err))
	}
	if err := a.StartAutosave(ctx); err != nil {
		a.log.Warn("autosave disabled", zap.Error(err))
	}
}

// Shutdown is called by Wails when the app exits.
func (a *App) Shutdown(ctx context.Context) {
	a.StopAutosave()
	a.workspaces.CloseAll()
	_ = a.log.Sync()
}

func (a *App) emitRuntime(name string, data ...any) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, data...)
}

// resetDocument installs doc as the open document. Callers hold mu or own a.
func (a *App) resetDocument(id, title string, doc *document.Document) {
	a.docID = id
	a.title = title
	a.doc = doc
	a.ctrl = canvas.New(doc, a.cfg.CanvasOptions(logger.Named(a.log, "canvas"), func(msg string) {
		a.emit(EventStatus, msg)
	}))
	a.saved, _ = doc.Serialize()
}

// Save writes content to the given path.
func (a *App) Save(path string, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// SaveBase64 decodes base64 data and writes it to the given path (e.g. for PNG export).
func (a *App) SaveBase64(path string, base64Data string) error {
	decoded, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, decoded, 0644)
}

// Load reads the file at path.
func (a *App) Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Remove deletes the file at the given path.
func (a *App) Remove(path string) error {
	return os.Remove(path)
}

// SaveFileDialog opens a save file dialog and returns the chosen path, or empty string if cancelled.
func (a *App) SaveFileDialog(title string, defaultFilename string, filterName string, filterPattern string) (string, error) {
	opts := runtime.SaveDialogOptions{
		Title:           title,
		DefaultFilename: defaultFilename,
		Filters: []runtime.FileFilter{
			{DisplayName: filterName, Pattern: filterPattern},
		},
	}
	return runtime.SaveFileDialog(a.ctx, opts)
}

// OpenFileDialog opens a file dialog and returns the chosen path, or empty string if cancelled.
func (a *App) OpenFileDialog(title string, filterName string, filterPattern string) (string, error) {
	opts := runtime.OpenDialogOptions{
		Title: title,
		Filters: []runtime.FileFilter{
			{DisplayName: filterName, Pattern: filterPattern},
		},
	}
	return runtime.OpenFileDialog(a.ctx, opts)
}

// OpenDirectoryDialog opens a directory dialog and returns the chosen path, or empty string if cancelled.
func (a *App) OpenDirectoryDialog(title string) (string, error) {
	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: title,
	})
}

// ListFiles returns file names in rootPath matching pattern (e.g. "*.docjson"), relative to rootPath.
func (a *App) ListFiles(rootPath string, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(rootPath, pattern))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		out = append(out, filepath.Base(m))
	}
	sort.Strings(out)
	return out, nil
}
