package canvas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstudio/internal/document"
	"docstudio/internal/element"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T, mutate func(*Options)) (*document.Document, *Controller) {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	d := document.New(document.Options{})
	return d, New(d, opts)
}

func box(d *document.Document, page int, x, y, w, h float64) *element.Element {
	return d.AddElement(page, element.NewShape(x, y, element.ShapeRectangle, w, h))
}

func down(c *Controller, x, y float64, mods Modifiers) {
	c.PointerDown(PointerEvent{Page: c.doc.ActivePageIndex(), X: x, Y: y, Mods: mods, Clicks: 1})
}

func click(c *Controller, x, y float64, mods Modifiers) {
	down(c, x, y, mods)
	c.PointerUp(PointerEvent{X: x, Y: y})
}

func drag(c *Controller, fx, fy, tx, ty float64, mods Modifiers) {
	down(c, fx, fy, mods)
	c.PointerMove(PointerEvent{X: (fx + tx) / 2, Y: (fy + ty) / 2})
	c.PointerMove(PointerEvent{X: tx, Y: ty})
	c.PointerUp(PointerEvent{X: tx, Y: ty})
}

func position(t *testing.T, d *document.Document, id string) element.Rect {
	t.Helper()
	el, ok := d.GetElement(d.ActivePageIndex(), id)
	require.True(t, ok, id)
	return el.Bounds()
}

func TestRubberBand_SelectsIntersecting(t *testing.T) {
	d, c := setup(t, nil)
	b1 := box(d, 0, 0, 0, 40, 40)
	b2 := box(d, 0, 50, 100, 20, 20)
	b3 := box(d, 0, 100, 0, 40, 40)

	down(c, 20, 60, 0)
	require.Equal(t, RubberBandSelecting, c.State())
	c.PointerMove(PointerEvent{X: 120, Y: 30})
	_, band, ok := c.RubberBand()
	require.True(t, ok)
	assert.Equal(t, element.Rect{X: 20, Y: 30, Width: 100, Height: 30}, band)
	c.PointerUp(PointerEvent{X: 120, Y: 30})

	assert.Equal(t, Idle, c.State())
	assert.ElementsMatch(t, []string{b1.ID, b3.ID}, d.Selection())
	assert.False(t, d.IsSelected(b2.ID))
}

func TestRubberBand_ExcludesLockedAndHidden(t *testing.T) {
	d, c := setup(t, nil)
	b1 := box(d, 0, 0, 0, 40, 40)
	b2 := box(d, 0, 60, 45, 10, 10)
	b3 := box(d, 0, 100, 0, 40, 40)
	d.SetLocked(0, []string{b2.ID}, true)
	hidden := box(d, 0, 80, 35, 5, 5)
	d.SetElementProps(0, []string{hidden.ID}, element.Patch{Visible: new(bool)})

	drag(c, 20, 60, 120, 30, 0)
	assert.ElementsMatch(t, []string{b1.ID, b3.ID}, d.Selection())
}

func TestRubberBand_ShiftExtendsSelection(t *testing.T) {
	d, c := setup(t, nil)
	a := box(d, 0, 0, 0, 40, 40)
	b := box(d, 0, 200, 200, 40, 40)

	click(c, 10, 10, 0)
	require.Equal(t, []string{a.ID}, d.Selection())
	drag(c, 180, 180, 260, 260, ModShift)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, d.Selection())

	click(c, 500, 500, 0)
	assert.Empty(t, d.Selection(), "plain click on empty area clears")
}

func TestDrag_SnapsAndCommitsOnce(t *testing.T) {
	d, c := setup(t, nil)
	el := box(d, 0, 100, 100, 50, 50)
	n := d.HistoryLen()

	drag(c, 110, 110, 133, 127, 0)
	assert.Equal(t, element.Rect{X: 120, Y: 120, Width: 50, Height: 50}, position(t, d, el.ID))
	assert.Equal(t, n+1, d.HistoryLen())
	assert.Equal(t, Idle, c.State())

	require.True(t, c.Undo())
	assert.Equal(t, 100.0, position(t, d, el.ID).X)
}

func TestDrag_ZoomInvariant(t *testing.T) {
	d, c := setup(t, func(o *Options) { o.SnapToGrid = false })
	el := box(d, 0, 100, 100, 50, 50)
	c.SetZoom(2)

	drag(c, 220, 220, 250, 230, 0)
	assert.Equal(t, element.Rect{X: 115, Y: 105, Width: 50, Height: 50}, position(t, d, el.ID))
}

func TestClick_NoMoveNoCommit(t *testing.T) {
	d, c := setup(t, nil)
	el := box(d, 0, 13, 17, 50, 50)
	n := d.HistoryLen()

	click(c, 20, 20, 0)
	assert.Equal(t, []string{el.ID}, d.Selection())
	assert.Equal(t, n, d.HistoryLen())
	assert.Equal(t, 13.0, position(t, d, el.ID).X, "a click must not snap")
}

func TestDrag_MovesWholeSelection(t *testing.T) {
	d, c := setup(t, func(o *Options) { o.SnapToGrid = false })
	a := box(d, 0, 0, 0, 40, 40)
	b := box(d, 0, 100, 100, 40, 40)
	locked := box(d, 0, 300, 300, 40, 40)
	d.SetSelection([]string{a.ID, b.ID, locked.ID})
	d.SetLocked(0, []string{locked.ID}, true)

	drag(c, 10, 10, 15, 30, 0)
	assert.Equal(t, element.Rect{X: 5, Y: 20, Width: 40, Height: 40}, position(t, d, a.ID))
	assert.Equal(t, element.Rect{X: 105, Y: 120, Width: 40, Height: 40}, position(t, d, b.ID))
	assert.Equal(t, 300.0, position(t, d, locked.ID).X)
}

func TestClick_SelectsGroup(t *testing.T) {
	d, c := setup(t, nil)
	a := box(d, 0, 0, 0, 40, 40)
	b := box(d, 0, 100, 100, 40, 40)
	other := box(d, 0, 300, 300, 40, 40)
	_, ok := d.GroupElements([]string{a.ID, b.ID})
	require.True(t, ok)

	click(c, 10, 10, 0)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, d.Selection())

	click(c, 310, 310, ModCtrl)
	assert.ElementsMatch(t, []string{a.ID, b.ID, other.ID}, d.Selection())
	click(c, 310, 310, ModMeta)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, d.Selection())

	click(c, 310, 310, 0)
	assert.Equal(t, []string{other.ID}, d.Selection())
	click(c, 10, 10, ModShift)
	assert.ElementsMatch(t, []string{a.ID, b.ID, other.ID}, d.Selection())
}

func TestClick_LockedIsTransparent(t *testing.T) {
	d, c := setup(t, nil)
	under := box(d, 0, 0, 0, 100, 100)
	over := box(d, 0, 0, 0, 100, 100)
	d.SetLocked(0, []string{over.ID}, true)

	click(c, 50, 50, 0)
	assert.Equal(t, []string{under.ID}, d.Selection())

	d.SetLocked(0, []string{under.ID}, true)
	down(c, 50, 50, 0)
	assert.Equal(t, RubberBandSelecting, c.State())
	assert.Empty(t, d.Selection())
	c.PointerUp(PointerEvent{X: 50, Y: 50})
}

func TestClick_TopmostWins(t *testing.T) {
	d, c := setup(t, nil)
	box(d, 0, 0, 0, 100, 100)
	top := box(d, 0, 50, 50, 100, 100)

	click(c, 75, 75, 0)
	assert.Equal(t, []string{top.ID}, d.Selection())
}

func TestPointerDown_SwitchesActivePage(t *testing.T) {
	d, c := setup(t, nil)
	a := box(d, 0, 0, 0, 40, 40)
	d.AddPage(-1)
	b := box(d, 1, 0, 0, 40, 40)
	require.True(t, d.SetActivePage(0))
	click(c, 10, 10, 0)
	require.Equal(t, []string{a.ID}, d.Selection())

	c.PointerDown(PointerEvent{Page: 1, X: 10, Y: 10})
	c.PointerUp(PointerEvent{X: 10, Y: 10})
	assert.Equal(t, 1, d.ActivePageIndex())
	assert.Equal(t, []string{b.ID}, d.Selection())

	c.PointerDown(PointerEvent{Page: 7, X: 10, Y: 10})
	assert.Equal(t, Idle, c.State())
}

func TestResize_SouthEast(t *testing.T) {
	d, c := setup(t, nil)
	el := box(d, 0, 100, 100, 200, 100)
	click(c, 150, 150, 0)
	n := d.HistoryLen()

	down(c, 300, 200, 0)
	require.Equal(t, Resizing, c.State())
	c.PointerMove(PointerEvent{X: 350, Y: 230})
	c.PointerUp(PointerEvent{X: 350, Y: 230})

	assert.Equal(t, element.Rect{X: 100, Y: 100, Width: 250, Height: 130}, position(t, d, el.ID))
	assert.Equal(t, n+1, d.HistoryLen())
}

func TestResize_NorthWestClampsToMinimum(t *testing.T) {
	d, c := setup(t, nil)
	el := box(d, 0, 100, 100, 200, 100)
	click(c, 150, 150, 0)

	down(c, 100, 100, 0)
	require.Equal(t, Resizing, c.State())
	c.PointerUp(PointerEvent{X: 400, Y: 400})

	assert.Equal(t, element.Rect{X: 280, Y: 180, Width: 20, Height: 20}, position(t, d, el.ID))
}

func TestResize_HandleScalesWithZoom(t *testing.T) {
	d, c := setup(t, nil)
	box(d, 0, 100, 100, 200, 100)
	click(c, 150, 150, 0)
	c.SetZoom(2)

	down(c, 2*300-7, 2*200-7, 0)
	assert.Equal(t, Dragging, c.State(), "7px from the corner is outside an 8px handle")
	c.PointerUp(PointerEvent{X: 593, Y: 393})

	down(c, 2*300+3, 2*200+3, 0)
	assert.Equal(t, Resizing, c.State())
	c.PointerUp(PointerEvent{X: 603, Y: 403})
}

func TestResized(t *testing.T) {
	o := element.Rect{X: 10, Y: 10, Width: 100, Height: 50}
	assert.Equal(t, element.Rect{X: 10, Y: 5, Width: 100, Height: 55}, resized(o, HandleN, 99, -5, 20))
	assert.Equal(t, element.Rect{X: 0, Y: 10, Width: 110, Height: 50}, resized(o, HandleW, -10, 99, 20))
	assert.Equal(t, element.Rect{X: 10, Y: 10, Width: 20, Height: 20}, resized(o, HandleSE, -500, -500, 20))
	assert.Equal(t, element.Rect{X: 90, Y: 10, Width: 20, Height: 50}, resized(o, HandleW, 200, 0, 20))
}

func TestTextEdit_CommitsOnceOnExit(t *testing.T) {
	d, c := setup(t, nil)
	txt := d.AddElement(0, element.NewText(100, 100, 300, 100, "<p>a</p>"))
	n := d.HistoryLen()

	c.PointerDown(PointerEvent{Page: 0, X: 150, Y: 150, Clicks: 2})
	require.Equal(t, EditingText, c.State())
	assert.Equal(t, txt.ID, c.EditingID())

	require.True(t, c.EditText("<p>ab</p>"))
	require.True(t, c.EditText("<p>abc</p>"))
	assert.Equal(t, n, d.HistoryLen())

	assert.False(t, c.KeyDown(KeyEvent{Key: "Delete"}), "shortcuts are off while editing")
	down(c, 160, 160, 0)
	assert.Equal(t, EditingText, c.State(), "clicks inside the edited element stay in the editor")

	click(c, 700, 700, 0)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, n+1, d.HistoryLen())
	got, _ := d.GetElement(0, txt.ID)
	assert.Equal(t, "<p>abc</p>", got.TextContent())
}

func TestTextEdit_UnchangedDoesNotCommit(t *testing.T) {
	d, c := setup(t, nil)
	cm := d.AddElement(0, element.NewComment(0, 0, "note", "", fixedNow))
	n := d.HistoryLen()

	require.True(t, c.BeginTextEdit(cm.ID))
	assert.True(t, c.KeyDown(KeyEvent{Key: "Escape"}))
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, n, d.HistoryLen())
}

func TestTextEdit_Rejections(t *testing.T) {
	d, c := setup(t, nil)
	shape := box(d, 0, 0, 0, 50, 50)
	locked := d.AddElement(0, element.NewText(100, 100, 100, 100, ""))
	d.SetLocked(0, []string{locked.ID}, true)

	assert.False(t, c.BeginTextEdit(shape.ID))
	assert.False(t, c.BeginTextEdit(locked.ID))
	assert.False(t, c.BeginTextEdit("missing"))
	assert.False(t, c.EditText("x"))

	c.PointerDown(PointerEvent{Page: 0, X: 10, Y: 10, Clicks: 2})
	assert.Equal(t, Dragging, c.State(), "double-click on a shape starts a drag")
	c.PointerUp(PointerEvent{X: 10, Y: 10})
}

func TestKeyboard_DeleteAndNudge(t *testing.T) {
	d, c := setup(t, nil)
	a := box(d, 0, 100, 100, 40, 40)
	b := box(d, 0, 200, 200, 40, 40)
	d.SetSelection([]string{a.ID})
	n := d.HistoryLen()

	require.True(t, c.KeyDown(KeyEvent{Key: "ArrowRight"}))
	require.True(t, c.KeyDown(KeyEvent{Key: "ArrowDown", Mods: ModShift}))
	assert.Equal(t, element.Rect{X: 101, Y: 110, Width: 40, Height: 40}, position(t, d, a.ID))
	assert.Equal(t, n+2, d.HistoryLen())

	assert.False(t, c.KeyDown(KeyEvent{Key: "Delete", InEditable: true}))
	require.True(t, c.KeyDown(KeyEvent{Key: "Backspace"}))
	_, ok := d.GetElement(0, a.ID)
	assert.False(t, ok)
	_, ok = d.GetElement(0, b.ID)
	assert.True(t, ok)
	assert.Empty(t, d.Selection())

	assert.False(t, c.KeyDown(KeyEvent{Key: "q"}))
}

func TestKeyboard_UndoRedoAndSelectAll(t *testing.T) {
	d, c := setup(t, nil)
	a := box(d, 0, 0, 0, 40, 40)
	b := box(d, 0, 50, 50, 40, 40)
	locked := box(d, 0, 100, 100, 40, 40)
	d.SetLocked(0, []string{locked.ID}, true)

	require.True(t, c.KeyDown(KeyEvent{Key: "a", Mods: ModCtrl}))
	assert.Equal(t, []string{a.ID, b.ID}, d.Selection())

	require.True(t, c.KeyDown(KeyEvent{Key: "z", Mods: ModCtrl}))
	el, _ := d.GetElement(0, locked.ID)
	assert.False(t, el.Locked)
	require.True(t, c.KeyDown(KeyEvent{Key: "Z", Mods: ModCtrl | ModShift}))
	el, _ = d.GetElement(0, locked.ID)
	assert.True(t, el.Locked)
	require.True(t, c.KeyDown(KeyEvent{Key: "z", Mods: ModMeta}))
	require.True(t, c.KeyDown(KeyEvent{Key: "y", Mods: ModCtrl}))
	el, _ = d.GetElement(0, locked.ID)
	assert.True(t, el.Locked)
}

func TestKeyboard_GroupUngroup(t *testing.T) {
	d, c := setup(t, nil)
	var status []string
	c.opts.OnStatus = func(s string) { status = append(status, s) }
	a := box(d, 0, 0, 0, 40, 40)
	b := box(d, 0, 50, 50, 40, 40)

	d.SetSelection([]string{a.ID})
	require.True(t, c.KeyDown(KeyEvent{Key: "g", Mods: ModCtrl}))
	assert.Empty(t, d.Groups())
	require.NotEmpty(t, status)
	assert.Contains(t, status[len(status)-1], "at least two")

	d.SetSelection([]string{a.ID, b.ID})
	require.True(t, c.KeyDown(KeyEvent{Key: "g", Mods: ModCtrl}))
	require.Len(t, d.Groups(), 1)

	d.SetSelection([]string{b.ID})
	require.True(t, c.KeyDown(KeyEvent{Key: "G", Mods: ModCtrl | ModShift}))
	assert.Empty(t, d.Groups())
	for _, id := range []string{a.ID, b.ID} {
		el, _ := d.GetElement(0, id)
		assert.Empty(t, el.GroupID)
	}
}

func TestClipboard_PasteCascades(t *testing.T) {
	d, c := setup(t, nil)
	a := box(d, 0, 100, 100, 40, 40)
	b := box(d, 0, 200, 100, 40, 40)
	_, ok := d.GroupElements([]string{a.ID, b.ID})
	require.True(t, ok)
	d.SetSelection([]string{a.ID, b.ID})

	require.True(t, c.KeyDown(KeyEvent{Key: "c", Mods: ModCtrl}))
	assert.Equal(t, 2, c.ClipboardLen())
	n := d.HistoryLen()

	first := c.Paste()
	require.Len(t, first, 2)
	assert.Equal(t, first, d.Selection())
	assert.Equal(t, n+1, d.HistoryLen())
	p0 := position(t, d, first[0])
	assert.Equal(t, 120.0, p0.X)
	assert.Equal(t, 120.0, p0.Y)
	for _, id := range first {
		assert.NotContains(t, []string{a.ID, b.ID}, id)
		el, _ := d.GetElement(0, id)
		assert.Empty(t, el.GroupID)
	}

	require.True(t, c.KeyDown(KeyEvent{Key: "v", Mods: ModCtrl}))
	second := d.Selection()
	assert.Equal(t, 140.0, position(t, d, second[0]).X)

	els := d.Elements(0)
	assert.Len(t, els, 6)
	assert.Equal(t, 5, els[5].ZIndex)

	require.True(t, c.Undo())
	assert.Len(t, d.Elements(0), 4)
}

func TestClipboard_CutAndDuplicate(t *testing.T) {
	d, c := setup(t, nil)
	a := box(d, 0, 100, 100, 40, 40)
	d.SetSelection([]string{a.ID})

	dups := c.DuplicateSelection()
	require.Len(t, dups, 1)
	assert.Equal(t, dups, d.Selection())
	assert.Equal(t, 120.0, position(t, d, dups[0]).X)

	require.True(t, c.KeyDown(KeyEvent{Key: "x", Mods: ModCtrl}))
	assert.Len(t, d.Elements(0), 1)
	ids := c.Paste()
	require.Len(t, ids, 1)
	assert.Equal(t, 140.0, position(t, d, ids[0]).X)
}

func TestZoom(t *testing.T) {
	_, c := setup(t, nil)
	assert.Equal(t, 1.0, c.Zoom())
	assert.Equal(t, 3.0, c.SetZoom(10))
	assert.Equal(t, 0.25, c.SetZoom(0.01))
	c.SetZoom(1)
	assert.Equal(t, 1.1, c.ZoomIn())
	assert.Equal(t, 1.0, c.ZoomOut())

	assert.False(t, c.Wheel(WheelEvent{DeltaY: 100}))
	assert.True(t, c.Wheel(WheelEvent{DeltaY: 100, Mods: ModCtrl}))
	assert.Equal(t, 0.9, c.Zoom())
	assert.True(t, c.Wheel(WheelEvent{DeltaY: -100, Mods: ModCtrl}))
	assert.Equal(t, 1.0, c.Zoom())

	require.True(t, c.KeyDown(KeyEvent{Key: "=", Mods: ModCtrl}))
	require.True(t, c.KeyDown(KeyEvent{Key: "0", Mods: ModCtrl}))
	assert.Equal(t, 1.0, c.Zoom())
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, CanTransition(Idle, Dragging))
	assert.True(t, CanTransition(EditingText, Idle))
	assert.False(t, CanTransition(Dragging, Resizing))
	assert.False(t, CanTransition(EditingText, Dragging))
	assert.False(t, CanTransition(Idle, Idle))
	assert.Equal(t, "rubber-band", RubberBandSelecting.String())
}

func TestEscape_CancelsRubberBand(t *testing.T) {
	d, c := setup(t, nil)
	box(d, 0, 0, 0, 40, 40)
	down(c, 100, 100, 0)
	c.PointerMove(PointerEvent{X: 0, Y: 0})
	require.True(t, c.KeyDown(KeyEvent{Key: "Escape"}))
	assert.Equal(t, Idle, c.State())
	c.PointerUp(PointerEvent{X: 0, Y: 0})
	assert.Empty(t, d.Selection())
}
