package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docstudio/internal/canvas"
	"docstudio/internal/document"
	"docstudio/internal/element"
	"docstudio/internal/logger"
)

// ErrUnknownKind is returned by InsertElement for kinds the factory does not build.
var ErrUnknownKind = errors.New("unknown element kind")

// DocumentInfo summarizes the open document for toolbars and title bars.
type DocumentInfo struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	PageCount  int      `json:"pageCount"`
	ActivePage int      `json:"activePage"`
	Selection  []string `json:"selection"`
	CanUndo    bool     `json:"canUndo"`
	CanRedo    bool     `json:"canRedo"`
	Zoom       float64  `json:"zoom"`
	State      string   `json:"state"`
	Dirty      bool     `json:"dirty"`
}

// ---------------------------------------------------------------------------
// Document lifecycle
// ---------------------------------------------------------------------------

// NewDocument replaces the open document with an empty one and returns its id.
func (a *App) NewDocument(title string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if title == "" {
		title = "Untitled document"
	}
	id := uuid.New().String()
	a.resetDocument(id, title, document.New(a.cfg.DocumentOptions(logger.Named(a.log, "document"))))
	a.emit(EventChanged)
	return id
}

// OpenDocument loads a serialized document. The open document is kept when the snapshot
// is rejected. An empty id gets a fresh one.
func (a *App) OpenDocument(id, title, snapshot string) error {
	doc := document.New(a.cfg.DocumentOptions(logger.Named(a.log, "document")))
	if err := doc.Deserialize(snapshot); err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	if id == "" {
		id = uuid.New().String()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetDocument(id, title, doc)
	a.emit(EventChanged)
	return nil
}

// SerializeDocument returns the JSON form of the open document.
func (a *App) SerializeDocument() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.Serialize()
}

// SetTitle renames the open document.
func (a *App) SetTitle(title string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.title = title
}

// DocumentInfo returns a summary of the open document.
func (a *App) DocumentInfo() DocumentInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.info()
}

func (a *App) info() DocumentInfo {
	current, _ := a.doc.Serialize()
	return DocumentInfo{
		ID:         a.docID,
		Title:      a.title,
		PageCount:  a.doc.PageCount(),
		ActivePage: a.doc.ActivePageIndex(),
		Selection:  a.doc.Selection(),
		CanUndo:    a.doc.CanUndo(),
		CanRedo:    a.doc.CanRedo(),
		Zoom:       a.ctrl.Zoom(),
		State:      a.ctrl.State().String(),
		Dirty:      current != a.saved,
	}
}

// ---------------------------------------------------------------------------
// Input
// ---------------------------------------------------------------------------

// Render returns the current scene.
func (a *App) Render() canvas.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.Render()
}

// PointerDown forwards a pointer press and returns the new scene.
func (a *App) PointerDown(ev canvas.PointerEvent) canvas.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctrl.PointerDown(ev)
	return a.ctrl.Render()
}

// PointerMove forwards a pointer move and returns the new scene.
func (a *App) PointerMove(ev canvas.PointerEvent) canvas.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctrl.PointerMove(ev)
	return a.ctrl.Render()
}

// PointerUp forwards a pointer release and returns the new scene.
func (a *App) PointerUp(ev canvas.PointerEvent) canvas.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctrl.PointerUp(ev)
	a.emit(EventChanged)
	return a.ctrl.Render()
}

// KeyDown forwards a key press. It reports whether the editor consumed the key.
func (a *App) KeyDown(ev canvas.KeyEvent) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	handled := a.ctrl.KeyDown(ev)
	if handled {
		a.emit(EventChanged)
	}
	return handled
}

// Wheel forwards a wheel event. It reports whether the zoom changed.
func (a *App) Wheel(ev canvas.WheelEvent) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.Wheel(ev)
}

// SetZoom sets the zoom level and returns the applied value.
func (a *App) SetZoom(z float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.SetZoom(z)
}

// BeginTextEdit enters text editing on a text element.
func (a *App) BeginTextEdit(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.BeginTextEdit(id)
}

// EditText replaces the content of the element being edited.
func (a *App) EditText(content string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.EditText(content)
}

// EndTextEdit leaves text editing, committing once if the content changed.
func (a *App) EndTextEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctrl.EndTextEdit()
	a.emit(EventChanged)
}

// ---------------------------------------------------------------------------
// Elements
// ---------------------------------------------------------------------------

// InsertElement adds a default element of kind at the top-left margin of the active page,
// selects it and returns its id.
func (a *App) InsertElement(kind string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.doc.PageSettings()
	x, y := s.MarginLeft, s.MarginTop
	var el *element.Element
	switch element.Kind(kind) {
	case element.KindText:
		el = element.NewText(x, y, 0, 0, "")
	case element.KindImage:
		el = element.NewImage(x, y, "", 0, 0)
	case element.KindShape:
		el = element.NewShape(x, y, element.ShapeRectangle, 0, 0)
	case element.KindTable:
		el = element.NewTable(x, y, element.DefaultTableRows, element.DefaultTableCols)
	case element.KindWatermark:
		el = element.NewWatermark("", s.Width, s.Height, element.WatermarkOptions{})
	case element.KindSignature:
		el = element.NewSignature(x, y)
	case element.KindComment:
		el = element.NewComment(x, y, "", "", time.Now())
	case element.KindLink:
		el = element.NewLink(x, y, "", "")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return a.insert(el).ID, nil
}

// insert adds a prepared element to the active page and selects it. Callers hold mu.
func (a *App) insert(el *element.Element) *element.Element {
	added := a.doc.AddElement(a.doc.ActivePageIndex(), el)
	a.doc.SetSelection([]string{added.ID})
	a.emit(EventChanged)
	return added
}

// DeleteSelection removes the selected elements.
func (a *App) DeleteSelection() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.ctrl.DeleteSelection()
}

// DuplicateSelection copies the selected elements in place with an offset.
func (a *App) DuplicateSelection() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.ctrl.DuplicateSelection()
}

// GroupSelection groups the selected elements and returns the group id, or "" when
// fewer than two elements are selected.
func (a *App) GroupSelection() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	gid, _ := a.ctrl.GroupSelection()
	return gid
}

// UngroupSelection dissolves every group touched by the selection.
func (a *App) UngroupSelection() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.ctrl.UngroupSelection()
}

// SetSelectionLocked locks or unlocks the selected elements.
func (a *App) SetSelectionLocked(locked bool) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.doc.SetLocked(a.doc.ActivePageIndex(), a.doc.Selection(), locked)
}

// BringToFront raises an element above the rest of its page.
func (a *App) BringToFront(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.BringToFront(a.doc.ActivePageIndex(), id)
}

// SendToBack lowers an element below the rest of its page.
func (a *App) SendToBack(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.SendToBack(a.doc.ActivePageIndex(), id)
}

// Copy copies the selection to the editor clipboard.
func (a *App) Copy() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.Copy()
}

// Cut copies the selection and removes it.
func (a *App) Cut() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.ctrl.Cut()
}

// Paste inserts the clipboard on the active page.
func (a *App) Paste() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.ctrl.Paste()
}

// Undo reverts the last committed change.
func (a *App) Undo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.ctrl.Undo()
}

// Redo reapplies the last undone change.
func (a *App) Redo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.emit(EventChanged)
	return a.ctrl.Redo()
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

// AddPage inserts a page after the active one and makes it active.
func (a *App) AddPage() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.AddPage(a.doc.ActivePageIndex())
	a.emit(EventChanged)
	return a.doc.ActivePageIndex()
}

// DeletePage removes the page at index.
func (a *App) DeletePage(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.doc.DeletePage(index); err != nil {
		return err
	}
	a.emit(EventChanged)
	return nil
}

// MovePage moves the page at index one step up (-1) or down (+1).
func (a *App) MovePage(index, direction int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.doc.MovePage(index, direction); err != nil {
		return err
	}
	a.emit(EventChanged)
	return nil
}

// SetActivePage switches the active page.
func (a *App) SetActivePage(index int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.SetActivePage(index)
}

// PageSettings returns the page layout of the open document.
func (a *App) PageSettings() document.PageSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.PageSettings()
}

// SetPageSize applies a named paper size.
func (a *App) SetPageSize(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.SetPageSize(name)
}

// SetOrientation switches between portrait and landscape.
func (a *App) SetOrientation(orientation string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.SetOrientation(orientation)
}

// SetMarginPreset applies a named margin set.
func (a *App) SetMarginPreset(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.SetMarginPreset(name)
}

// SetPageNumbering configures page numbers.
func (a *App) SetPageNumbering(n document.PageNumbering) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc.SetPageNumbering(n)
}

// SetPageBackground sets the background color of one page.
func (a *App) SetPageBackground(index int, color string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.SetPageBackground(index, color)
}
