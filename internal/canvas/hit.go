package canvas

import (
	"cmp"
	"slices"
	"strings"

	"docstudio/internal/element"
)

// Handle is a resize handle direction.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
)

// Handles lists the eight handles clockwise from the top-left corner.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

func (h Handle) north() bool { return strings.HasPrefix(string(h), "n") }
func (h Handle) south() bool { return strings.HasPrefix(string(h), "s") }
func (h Handle) east() bool  { return strings.HasSuffix(string(h), "e") }
func (h Handle) west() bool  { return strings.HasSuffix(string(h), "w") }

// anchor is the point of r the handle sits on.
func (h Handle) anchor(r element.Rect) element.Point {
	p := r.Center()
	switch {
	case h.west():
		p.X = r.Left()
	case h.east():
		p.X = r.Right()
	}
	switch {
	case h.north():
		p.Y = r.Top()
	case h.south():
		p.Y = r.Bottom()
	}
	return p
}

// handleRect returns the square hit area of h on r, size in page units.
func handleRect(r element.Rect, h Handle, size float64) element.Rect {
	a := h.anchor(r)
	return element.Rect{X: a.X - size/2, Y: a.Y - size/2, Width: size, Height: size}
}

// resized applies a handle drag of (dx, dy) to the start rectangle o. Width and height never
// fall below min; when a west or north edge hits the floor the opposite edge stays put.
func resized(o element.Rect, h Handle, dx, dy, min float64) element.Rect {
	r := o
	if h.east() {
		r.Width = o.Width + dx
	}
	if h.west() {
		r.X = o.X + dx
		r.Width = o.Width - dx
	}
	if h.south() {
		r.Height = o.Height + dy
	}
	if h.north() {
		r.Y = o.Y + dy
		r.Height = o.Height - dy
	}
	if r.Width < min {
		if h.west() {
			r.X = o.Right() - min
		}
		r.Width = min
	}
	if r.Height < min {
		if h.north() {
			r.Y = o.Bottom() - min
		}
		r.Height = min
	}
	return r
}

// paintOrder returns els sorted by ascending z-index; ties keep stored order.
func paintOrder(els []*element.Element) []*element.Element {
	out := slices.Clone(els)
	slices.SortStableFunc(out, func(a, b *element.Element) int { return cmp.Compare(a.ZIndex, b.ZIndex) })
	return out
}

// interactive reports whether pointer gestures can target el.
func interactive(el *element.Element) bool {
	return el.Visible() && !el.Locked
}

// elementAt returns the topmost interactive element containing p.
func elementAt(els []*element.Element, p element.Point) *element.Element {
	ordered := paintOrder(els)
	for i := len(ordered) - 1; i >= 0; i-- {
		if el := ordered[i]; interactive(el) && el.Bounds().Contains(p) {
			return el
		}
	}
	return nil
}

// handleAt returns the resize handle under p among the selected interactive elements,
// topmost element first.
func handleAt(els []*element.Element, selected func(id string) bool, p element.Point, size float64) (*element.Element, Handle, bool) {
	ordered := paintOrder(els)
	for i := len(ordered) - 1; i >= 0; i-- {
		el := ordered[i]
		if !interactive(el) || !selected(el.ID) {
			continue
		}
		for _, h := range Handles {
			if handleRect(el.Bounds(), h, size).Contains(p) {
				return el, h, true
			}
		}
	}
	return nil, "", false
}
