// Package canvas is the interaction engine of the editor. It turns pointer, keyboard and
// wheel input into document mutations and projects the document into a render scene.
package canvas

import (
	"fmt"

	"go.uber.org/zap"

	"docstudio/internal/document"
	"docstudio/internal/element"
)

// gesture holds the bookkeeping of the pointer gesture in progress.
type gesture struct {
	page   int
	start  element.Point
	origin map[string]element.Rect
	handle Handle
	target string
	band   element.Rect
	moved  bool
}

// textEdit is the element being edited in place.
type textEdit struct {
	page     int
	id       string
	original string
}

// Controller interprets input for one document. Like the document it drives, it is not
// safe for concurrent use.
type Controller struct {
	doc  *document.Document
	opts Options
	log  *zap.Logger

	state     State
	zoom      float64
	g         gesture
	edit      textEdit
	clipboard []*element.Element
}

// New returns a controller for doc at zoom 1.
func New(doc *document.Document, opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		doc:  doc,
		opts: opts,
		log:  opts.Logger,
		zoom: clamp(1, opts.ZoomMin, opts.ZoomMax),
	}
}

// Document returns the document the controller edits.
func (c *Controller) Document() *document.Document { return c.doc }

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

func (c *Controller) transition(to State) bool {
	if !CanTransition(c.state, to) {
		c.log.Warn("rejected gesture transition", zap.Stringer("from", c.state), zap.Stringer("to", to))
		return false
	}
	c.log.Debug("gesture transition", zap.Stringer("from", c.state), zap.Stringer("to", to))
	c.state = to
	return true
}

func (c *Controller) status(format string, args ...any) {
	if c.opts.OnStatus != nil {
		c.opts.OnStatus(fmt.Sprintf(format, args...))
	}
}

// toPage converts screen offsets to page-local units.
func (c *Controller) toPage(x, y float64) element.Point {
	return element.Point{X: x / c.zoom, Y: y / c.zoom}
}

func (c *Controller) snap(v float64) float64 {
	if !c.opts.SnapToGrid {
		return v
	}
	return element.Snap(v, c.opts.GridSize)
}

// ---------------------------------------------------------------------------
// Pointer gestures
// ---------------------------------------------------------------------------

// PointerDown starts a gesture: resize on a handle, text editing on a double-click of a
// text or comment element, selection and drag on an element, rubber-band selection on
// empty page area. Locked and hidden elements are transparent to the pointer.
func (c *Controller) PointerDown(ev PointerEvent) {
	if ev.Page < 0 || ev.Page >= c.doc.PageCount() {
		return
	}
	p := c.toPage(ev.X, ev.Y)
	els := c.doc.Elements(ev.Page)
	hit := elementAt(els, p)

	if c.state == EditingText {
		if hit != nil && ev.Page == c.edit.page && hit.ID == c.edit.id {
			return
		}
		c.EndTextEdit()
	}
	if c.state != Idle {
		return
	}
	c.doc.SetActivePage(ev.Page)

	if el, h, ok := handleAt(els, c.doc.IsSelected, p, c.opts.HandleSize/c.zoom); ok {
		c.beginResize(ev.Page, el, h, p)
		return
	}

	if hit == nil {
		if !ev.Mods.Has(ModShift) && !ev.Mods.Command() {
			c.doc.ClearSelection()
		}
		c.g = gesture{page: ev.Page, start: p, band: element.Rect{X: p.X, Y: p.Y}}
		c.transition(RubberBandSelecting)
		return
	}

	if ev.Clicks >= 2 && hit.Editable() {
		c.BeginTextEdit(hit.ID)
		return
	}

	switch {
	case ev.Mods.Command():
		c.doc.ToggleSelection(hit.ID)
		if !c.doc.IsSelected(hit.ID) {
			return
		}
	case ev.Mods.Has(ModShift):
		c.doc.AddToSelection(c.doc.SelectGroup(hit.ID)...)
	case !c.doc.IsSelected(hit.ID):
		c.doc.SetSelection(c.doc.SelectGroup(hit.ID))
	}
	c.beginDrag(ev.Page, hit.ID, p, els)
}

func (c *Controller) beginDrag(page int, target string, p element.Point, els []*element.Element) {
	origin := make(map[string]element.Rect)
	for _, el := range els {
		if interactive(el) && c.doc.IsSelected(el.ID) {
			origin[el.ID] = el.Bounds()
		}
	}
	c.g = gesture{page: page, start: p, origin: origin, target: target}
	c.transition(Dragging)
}

func (c *Controller) beginResize(page int, el *element.Element, h Handle, p element.Point) {
	c.g = gesture{
		page:   page,
		start:  p,
		origin: map[string]element.Rect{el.ID: el.Bounds()},
		handle: h,
		target: el.ID,
	}
	c.transition(Resizing)
}

// PointerMove advances the active gesture. Drag and resize write through to the document
// without committing.
func (c *Controller) PointerMove(ev PointerEvent) {
	p := c.toPage(ev.X, ev.Y)
	dx, dy := p.X-c.g.start.X, p.Y-c.g.start.Y

	switch c.state {
	case Dragging:
		if dx == 0 && dy == 0 && !c.g.moved {
			return
		}
		for id, o := range c.g.origin {
			nx, ny := c.snap(o.X+dx), c.snap(o.Y+dy)
			if nx == o.X && ny == o.Y && !c.g.moved {
				continue
			}
			if _, ok := c.doc.UpdateElement(c.g.page, id, element.Move(nx, ny)); ok {
				c.g.moved = true
			}
		}
	case Resizing:
		o := c.g.origin[c.g.target]
		r := resized(o, c.g.handle, dx, dy, c.opts.MinSize)
		if r == o && !c.g.moved {
			return
		}
		if _, ok := c.doc.UpdateElement(c.g.page, c.g.target, element.Resize(r)); ok {
			c.g.moved = true
		}
	case RubberBandSelecting:
		c.g.band = element.RectFromPoints(c.g.start, p)
	}
}

// PointerUp ends the active gesture. A drag or resize that changed anything is committed
// as one undo step; a rubber band adds every interactive element it overlaps to the
// selection.
func (c *Controller) PointerUp(ev PointerEvent) {
	switch c.state {
	case Dragging, Resizing:
		c.PointerMove(ev)
		if c.g.moved {
			c.doc.Commit()
			if c.state == Dragging {
				c.status("Moved %d element(s)", len(c.g.origin))
			} else {
				c.status("Resized element")
			}
		}
	case RubberBandSelecting:
		c.PointerMove(ev)
		c.selectInBand()
	default:
		return
	}
	c.g = gesture{}
	c.transition(Idle)
}

// selectInBand adds the interactive elements strictly overlapping the band.
func (c *Controller) selectInBand() {
	band := c.g.band
	if band.Width == 0 && band.Height == 0 {
		return
	}
	var ids []string
	for _, el := range c.doc.Elements(c.g.page) {
		if interactive(el) && el.Bounds().Intersects(band) {
			ids = append(ids, el.ID)
		}
	}
	c.doc.AddToSelection(ids...)
	if len(ids) > 0 {
		c.status("Selected %d element(s)", len(c.doc.Selection()))
	}
}

// CancelGesture abandons a rubber band selection in progress. Drag and resize are ended
// like a pointer release at the last position.
func (c *Controller) CancelGesture() {
	switch c.state {
	case RubberBandSelecting:
		c.g = gesture{}
		c.transition(Idle)
	case Dragging, Resizing:
		if c.g.moved {
			c.doc.Commit()
		}
		c.g = gesture{}
		c.transition(Idle)
	}
}

// RubberBand returns the selection rectangle in page units while one is being drawn.
func (c *Controller) RubberBand() (int, element.Rect, bool) {
	if c.state != RubberBandSelecting {
		return 0, element.Rect{}, false
	}
	return c.g.page, c.g.band, true
}

// ---------------------------------------------------------------------------
// Text editing
// ---------------------------------------------------------------------------

// BeginTextEdit switches an unlocked text or comment element of the active page into
// editing mode and selects it alone.
func (c *Controller) BeginTextEdit(id string) bool {
	page := c.doc.ActivePageIndex()
	el, ok := c.doc.GetElement(page, id)
	if !ok || !interactive(el) || !el.Editable() {
		return false
	}
	if c.state == EditingText {
		c.EndTextEdit()
	}
	if !c.transition(EditingText) {
		return false
	}
	c.edit = textEdit{page: page, id: id, original: el.TextContent()}
	c.doc.SetSelection([]string{id})
	return true
}

// EditText writes the content of the element being edited. It does not commit.
func (c *Controller) EditText(content string) bool {
	if c.state != EditingText {
		return false
	}
	_, ok := c.doc.UpdateElement(c.edit.page, c.edit.id, element.SetContent(content))
	return ok
}

// EditingID returns the id of the element being edited, or "".
func (c *Controller) EditingID() string {
	if c.state != EditingText {
		return ""
	}
	return c.edit.id
}

// EndTextEdit leaves editing mode, committing once when the content changed.
func (c *Controller) EndTextEdit() {
	if c.state != EditingText {
		return
	}
	if el, ok := c.doc.GetElement(c.edit.page, c.edit.id); ok && el.TextContent() != c.edit.original {
		c.doc.Commit()
		c.status("Text updated")
	}
	c.edit = textEdit{}
	c.transition(Idle)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
