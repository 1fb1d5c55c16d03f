package canvas

import (
	"strings"

	"go.uber.org/zap"
)

// KeyDown runs the shortcut bound to ev and reports whether it was handled. Shortcuts are
// ignored while focus is in an editable field or an element is being edited in place,
// except Escape which ends the edit.
func (c *Controller) KeyDown(ev KeyEvent) bool {
	if ev.Key == "Escape" {
		return c.escape()
	}
	if ev.InEditable || c.state != Idle {
		return false
	}

	if ev.Mods.Command() {
		return c.command(ev)
	}

	step := c.opts.NudgeStep
	if ev.Mods.Has(ModShift) {
		step = c.opts.NudgeStepLarge
	}
	switch ev.Key {
	case "Delete", "Backspace":
		c.DeleteSelection()
	case "ArrowUp":
		c.Nudge(0, -step)
	case "ArrowDown":
		c.Nudge(0, step)
	case "ArrowLeft":
		c.Nudge(-step, 0)
	case "ArrowRight":
		c.Nudge(step, 0)
	default:
		return false
	}
	return true
}

func (c *Controller) command(ev KeyEvent) bool {
	shift := ev.Mods.Has(ModShift)
	switch strings.ToLower(ev.Key) {
	case "z":
		if shift {
			c.Redo()
		} else {
			c.Undo()
		}
	case "y":
		c.Redo()
	case "c":
		c.Copy()
	case "x":
		c.Cut()
	case "v":
		c.Paste()
	case "d":
		c.DuplicateSelection()
	case "a":
		c.SelectAll()
	case "g":
		if shift {
			c.UngroupSelection()
		} else {
			c.GroupSelection()
		}
	case "=", "+":
		c.ZoomIn()
	case "-":
		c.ZoomOut()
	case "0":
		c.SetZoom(1)
	default:
		return false
	}
	c.log.Debug("shortcut", zap.String("key", ev.Key), zap.Bool("shift", shift))
	return true
}

func (c *Controller) escape() bool {
	switch c.state {
	case EditingText:
		c.EndTextEdit()
	case RubberBandSelecting, Dragging, Resizing:
		c.CancelGesture()
	default:
		if len(c.doc.Selection()) == 0 {
			return false
		}
		c.doc.ClearSelection()
	}
	return true
}
