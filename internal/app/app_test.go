package app

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"docstudio/internal/canvas"
	"docstudio/internal/config"
	"docstudio/internal/document"
	"docstudio/internal/element"
	"docstudio/internal/workspace"
)

type recorder struct {
	mu     sync.Mutex
	events map[string][]string
}

func (r *recorder) emit(name string, data ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := ""
	if len(data) > 0 {
		msg, _ = data[0].(string)
	}
	r.events[name] = append(r.events[name], msg)
}

func (r *recorder) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events[EventStatus]...)
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Editor: config.EditorConfig{HistoryLimit: 50, DuplicateOffset: 20},
		Canvas: config.CanvasConfig{
			ZoomMin: 0.25, ZoomMax: 3, ZoomStep: 0.1, GridSize: 10, SnapToGrid: true,
			MinElementSize: 20, HandleSize: 8, NudgeStep: 1, NudgeStepLarge: 10,
		},
		Workspace: config.WorkspaceConfig{Path: filepath.Join(dir, "test"+workspace.FileExtension)},
		Autosave:  config.AutosaveConfig{Path: filepath.Join(dir, "autosave.db"), Interval: time.Hour},
		Publish:   config.PublishConfig{Table: "published_docs", Timeout: 10 * time.Second},
		Logger:    config.LoggerConfig{Level: "error", Encoding: "json"},
	}
}

func newTestApp(t *testing.T) (*App, *recorder) {
	t.Helper()
	a := NewApp("test", testConfig(t), nil)
	rec := &recorder{events: map[string][]string{}}
	a.emit = rec.emit
	t.Cleanup(func() { a.Shutdown(context.Background()) })
	return a, rec
}

func withWorkspace(t *testing.T, a *App) {
	t.Helper()
	_, err := a.OpenWorkspace(a.cfg.Workspace.Path)
	require.NoError(t, err)
}

func TestInsertElement_UndoRedo(t *testing.T) {
	a, _ := newTestApp(t)

	id, err := a.InsertElement(string(element.KindShape))
	require.NoError(t, err)

	info := a.DocumentInfo()
	assert.Equal(t, []string{id}, info.Selection)
	assert.True(t, info.CanUndo)
	assert.True(t, info.Dirty)

	scene := a.Render()
	require.Len(t, scene.Pages, 1)
	require.Len(t, scene.Pages[0].Elements, 1)
	el := scene.Pages[0].Elements[0].Element
	assert.Equal(t, 96.0, el.X, "placed at the left margin")
	assert.Equal(t, 96.0, el.Y, "placed at the top margin")

	assert.True(t, a.Undo())
	assert.Empty(t, a.Render().Pages[0].Elements)
	assert.False(t, a.DocumentInfo().Dirty)
	assert.True(t, a.Redo())
	assert.Len(t, a.Render().Pages[0].Elements, 1)
}

func TestInsertElement_EveryKind(t *testing.T) {
	a, _ := newTestApp(t)
	for _, kind := range element.Kinds {
		_, err := a.InsertElement(string(kind))
		require.NoError(t, err, kind)
	}
	assert.Len(t, a.Render().Pages[0].Elements, len(element.Kinds))

	_, err := a.InsertElement("video")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestOpenDocument_RejectedKeepsCurrent(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.InsertElement(string(element.KindText))
	require.NoError(t, err)
	before := a.DocumentInfo()

	err = a.OpenDocument("", "Broken", `{"pages": "nope"}`)
	require.ErrorIs(t, err, document.ErrMalformed)
	assert.Equal(t, before.ID, a.DocumentInfo().ID)
	assert.Len(t, a.Render().Pages[0].Elements, 1)
}

func TestOpenDocument_RoundTrip(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.InsertElement(string(element.KindTable))
	require.NoError(t, err)
	a.AddPage()
	data, err := a.SerializeDocument()
	require.NoError(t, err)

	b, _ := newTestApp(t)
	require.NoError(t, b.OpenDocument("doc-1", "Copy", data))
	info := b.DocumentInfo()
	assert.Equal(t, "doc-1", info.ID)
	assert.Equal(t, 2, info.PageCount)
	assert.Equal(t, 0, info.ActivePage)
	assert.False(t, info.CanUndo)
	assert.False(t, info.Dirty)
}

func TestPointerDrag_ThroughFacade(t *testing.T) {
	a, rec := newTestApp(t)
	id, err := a.InsertElement(string(element.KindShape))
	require.NoError(t, err)

	// Press inside the shape, clear of the corner handles. The raw target (146,126) snaps to
	// the 10-unit grid.
	a.PointerDown(canvas.PointerEvent{Page: 0, X: 120, Y: 120, Clicks: 1})
	a.PointerMove(canvas.PointerEvent{Page: 0, X: 170, Y: 150})
	scene := a.PointerUp(canvas.PointerEvent{Page: 0, X: 170, Y: 150})

	el := scene.Pages[0].Elements[0]
	assert.Equal(t, id, el.Element.ID)
	assert.Equal(t, 150.0, el.Element.X)
	assert.Equal(t, 130.0, el.Element.Y)
	assert.Equal(t, 150.0, el.Element.Width, "dragging keeps the size")
	assert.Equal(t, 100.0, el.Element.Height)
	assert.Equal(t, "idle", strings.ToLower(scene.State))
	assert.NotEmpty(t, rec.events[EventChanged])
}

func TestKeyDown_StatusEvents(t *testing.T) {
	a, rec := newTestApp(t)
	assert.True(t, a.KeyDown(canvas.KeyEvent{Key: "g", Mods: canvas.ModCtrl}))
	require.NotEmpty(t, rec.statuses())
	assert.Contains(t, rec.statuses()[0], "at least two")

	assert.False(t, a.KeyDown(canvas.KeyEvent{Key: "Delete", InEditable: true}))
	assert.Empty(t, a.GroupSelection())
}

func TestPages(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, 1, a.AddPage())
	assert.Equal(t, 2, a.DocumentInfo().PageCount)
	require.NoError(t, a.MovePage(1, -1))
	require.NoError(t, a.DeletePage(0))
	assert.ErrorIs(t, a.DeletePage(0), document.ErrLastPage)
	require.NoError(t, a.SetPageSize("a4"))
	assert.Equal(t, 794.0, a.PageSettings().Width)
	require.NoError(t, a.SetOrientation(document.Landscape))
	assert.Equal(t, 794.0, a.PageSettings().Height)
}

func TestImportsAndExports(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.ImportMarkdown("# Quarterly report\n\nRevenue grew.")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report", a.DocumentInfo().Title)

	_, err = a.ImportCSV("")
	assert.Error(t, err)

	text := a.ExportText()
	assert.Contains(t, text, "Quarterly report")
	assert.Contains(t, text, "Revenue grew.")

	html, err := a.ExportHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Quarterly report</title>")

	png, err := a.PageThumbnail(0, 120)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(png)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(raw[:4]))
}

func TestWorkspace_SaveAndLoad(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.SaveToWorkspace()
	assert.ErrorIs(t, err, ErrNoWorkspace)

	withWorkspace(t, a)
	a.SetTitle("Plan")
	_, err = a.InsertElement(string(element.KindText))
	require.NoError(t, err)
	a.SetZoom(1.5)
	version, err := a.SaveToWorkspace()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.False(t, a.DocumentInfo().Dirty)

	docs, err := a.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Plan", docs[0].Title)
	thumb, err := a.DocumentThumbnail(docs[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, thumb)

	a.NewDocument("")
	require.NoError(t, a.LoadFromWorkspace(docs[0].ID))
	info := a.DocumentInfo()
	assert.Equal(t, docs[0].ID, info.ID)
	assert.Equal(t, "Plan", info.Title)
	assert.Equal(t, 1.5, info.Zoom)
	assert.Len(t, a.Render().Pages[0].Elements, 1)

	require.NoError(t, a.RenameDocument(info.ID, "Plan B"))
	assert.Equal(t, "Plan B", a.DocumentInfo().Title)
}

func TestAutosave_Recovery(t *testing.T) {
	a, _ := newTestApp(t)
	withWorkspace(t, a)
	require.NoError(t, a.StartAutosave(context.Background()))

	require.NoError(t, a.AutosaveNow())
	entries, err := a.RecoverableDocuments()
	require.NoError(t, err)
	assert.Empty(t, entries, "clean documents are not autosaved")

	a.SetTitle("Draft")
	_, err = a.InsertElement(string(element.KindText))
	require.NoError(t, err)
	require.NoError(t, a.AutosaveNow())
	entries, err = a.RecoverableDocuments()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Draft", entries[0].Title)
	docID := entries[0].DocumentID

	a.NewDocument("Other")
	require.NoError(t, a.RecoverDocument(docID))
	info := a.DocumentInfo()
	assert.Equal(t, docID, info.ID)
	assert.True(t, info.Dirty)
	assert.Len(t, a.Render().Pages[0].Elements, 1)

	_, err = a.SaveToWorkspace()
	require.NoError(t, err)
	entries, err = a.RecoverableDocuments()
	require.NoError(t, err)
	assert.Empty(t, entries, "saving drops the recovery entry")
}

func TestPublish_SQLiteProfile(t *testing.T) {
	keyring.MockInit()
	a, rec := newTestApp(t)
	withWorkspace(t, a)

	_, err := a.SaveConnectionProfile(workspace.ConnectionProfile{Name: "bad", Driver: "oracle"}, "")
	require.Error(t, err)

	profileID, err := a.SaveConnectionProfile(workspace.ConnectionProfile{
		Name:         "shared",
		Driver:       "sqlite",
		DatabaseName: filepath.Join(t.TempDir(), "shared.db"),
	}, "unused")
	require.NoError(t, err)

	a.SetTitle("Memo")
	_, err = a.InsertElement(string(element.KindText))
	require.NoError(t, err)
	docID := a.DocumentInfo().ID

	version, err := a.PublishDocument(profileID)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	version, err = a.PublishDocument(profileID)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Contains(t, rec.statuses(), "Published version 2")

	published, err := a.ListPublished(profileID)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Memo", published[0].Title)

	a.NewDocument("")
	require.NoError(t, a.OpenPublished(profileID, docID))
	assert.Equal(t, docID, a.DocumentInfo().ID)
	assert.Len(t, a.Render().Pages[0].Elements, 1)

	require.NoError(t, a.DeleteConnectionProfile(profileID))
	profiles, err := a.ListConnectionProfiles()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
