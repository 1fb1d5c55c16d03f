package canvas

import (
	"math"
	"slices"

	"docstudio/internal/element"
)

// selectedElements returns copies of the selected elements of the active page that
// gestures may act on.
func (c *Controller) selectedElements() []*element.Element {
	page := c.doc.ActivePageIndex()
	var out []*element.Element
	for _, id := range c.doc.Selection() {
		if el, ok := c.doc.GetElement(page, id); ok && !el.Locked {
			out = append(out, el)
		}
	}
	return out
}

// DeleteSelection removes the selected unlocked elements as one undo step.
func (c *Controller) DeleteSelection() int {
	var ids []string
	for _, el := range c.selectedElements() {
		ids = append(ids, el.ID)
	}
	if len(ids) == 0 {
		return 0
	}
	c.doc.RemoveElements(c.doc.ActivePageIndex(), ids)
	c.status("Deleted %d element(s)", len(ids))
	return len(ids)
}

// SelectAll selects every visible unlocked element of the active page.
func (c *Controller) SelectAll() {
	var ids []string
	for _, el := range c.doc.Elements(c.doc.ActivePageIndex()) {
		if interactive(el) {
			ids = append(ids, el.ID)
		}
	}
	c.doc.SetSelection(ids)
}

// Nudge moves the selected unlocked elements by (dx, dy) and commits once.
func (c *Controller) Nudge(dx, dy float64) bool {
	page := c.doc.ActivePageIndex()
	moved := false
	for _, el := range c.selectedElements() {
		if _, ok := c.doc.UpdateElement(page, el.ID, element.Move(el.X+dx, el.Y+dy)); ok {
			moved = true
		}
	}
	if moved {
		c.doc.Commit()
	}
	return moved
}

// DuplicateSelection duplicates every selected element as one undo step and selects the
// copies.
func (c *Controller) DuplicateSelection() []string {
	page := c.doc.ActivePageIndex()
	var ids []string
	c.doc.Batch(func() {
		for _, id := range c.doc.Selection() {
			if dup, ok := c.doc.DuplicateElement(page, id); ok {
				ids = append(ids, dup.ID)
			}
		}
	})
	if len(ids) > 0 {
		c.doc.SetSelection(ids)
		c.status("Duplicated %d element(s)", len(ids))
	}
	return ids
}

// GroupSelection groups the current selection. At least two elements are required.
func (c *Controller) GroupSelection() (string, bool) {
	sel := c.doc.Selection()
	if len(sel) < 2 {
		c.status("Select at least two elements to group")
		return "", false
	}
	gid, ok := c.doc.GroupElements(sel)
	if !ok {
		c.status("Select at least two elements to group")
		return "", false
	}
	members, _ := c.doc.GroupMembers(gid)
	c.doc.SetSelection(members)
	c.status("Grouped %d elements", len(members))
	return gid, true
}

// UngroupSelection dissolves every group touched by the selection as one undo step.
func (c *Controller) UngroupSelection() int {
	page := c.doc.ActivePageIndex()
	var gids []string
	for _, id := range c.doc.Selection() {
		if el, ok := c.doc.GetElement(page, id); ok && el.GroupID != "" && !slices.Contains(gids, el.GroupID) {
			gids = append(gids, el.GroupID)
		}
	}
	if len(gids) == 0 {
		c.status("Selection is not grouped")
		return 0
	}
	c.doc.Batch(func() {
		for _, gid := range gids {
			c.doc.UngroupElements(gid)
		}
	})
	c.status("Ungrouped %d group(s)", len(gids))
	return len(gids)
}

// Undo reverts the last committed step.
func (c *Controller) Undo() bool {
	c.EndTextEdit()
	if !c.doc.Undo() {
		c.status("Nothing to undo")
		return false
	}
	return true
}

// Redo re-applies the last undone step.
func (c *Controller) Redo() bool {
	c.EndTextEdit()
	if !c.doc.Redo() {
		c.status("Nothing to redo")
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Clipboard
// ---------------------------------------------------------------------------

// Copy stores deep copies of the selected elements in the controller's clipboard.
func (c *Controller) Copy() int {
	page := c.doc.ActivePageIndex()
	var buf []*element.Element
	for _, id := range c.doc.Selection() {
		if el, ok := c.doc.GetElement(page, id); ok {
			buf = append(buf, el)
		}
	}
	if len(buf) == 0 {
		return 0
	}
	c.clipboard = buf
	c.status("Copied %d element(s)", len(buf))
	return len(buf)
}

// Cut copies the selection and deletes it.
func (c *Controller) Cut() int {
	if c.Copy() == 0 {
		return 0
	}
	return c.DeleteSelection()
}

// Paste inserts offset copies of the clipboard on the active page as one undo step and
// selects them. Each paste cascades by another offset.
func (c *Controller) Paste() []string {
	if len(c.clipboard) == 0 {
		return nil
	}
	page := c.doc.ActivePageIndex()
	var ids []string
	c.doc.Batch(func() {
		for _, src := range c.clipboard {
			src.X += c.opts.PasteOffset
			src.Y += c.opts.PasteOffset
			el := src.Clone()
			el.ID = ""
			el.GroupID = ""
			el.ZIndex = element.AutoZ
			ids = append(ids, c.doc.AddElement(page, el).ID)
		}
	})
	c.doc.SetSelection(ids)
	c.status("Pasted %d element(s)", len(ids))
	return ids
}

// ClipboardLen returns the number of elements in the clipboard.
func (c *Controller) ClipboardLen() int { return len(c.clipboard) }

// ---------------------------------------------------------------------------
// Zoom
// ---------------------------------------------------------------------------

// Zoom returns the view scale.
func (c *Controller) Zoom() float64 { return c.zoom }

// SetZoom sets the view scale, rounded to a hundredth and clamped to the configured range,
// and returns it. Stored element coordinates are unaffected.
func (c *Controller) SetZoom(z float64) float64 {
	c.zoom = clamp(math.Round(z*100)/100, c.opts.ZoomMin, c.opts.ZoomMax)
	return c.zoom
}

// ZoomIn raises the zoom by one step.
func (c *Controller) ZoomIn() float64 { return c.SetZoom(c.zoom + c.opts.ZoomStep) }

// ZoomOut lowers the zoom by one step.
func (c *Controller) ZoomOut() float64 { return c.SetZoom(c.zoom - c.opts.ZoomStep) }

// Wheel zooms on Ctrl or Meta + wheel. It reports whether the event was consumed.
func (c *Controller) Wheel(ev WheelEvent) bool {
	if !ev.Mods.Command() || ev.DeltaY == 0 {
		return false
	}
	if ev.DeltaY > 0 {
		c.ZoomOut()
	} else {
		c.ZoomIn()
	}
	return true
}
