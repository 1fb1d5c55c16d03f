package canvas

import (
	"fmt"
	"strings"

	"docstudio/internal/element"
	"docstudio/internal/htmltext"
)

// Scene is the view tree produced by one render pass. It holds copies only; mutating it
// never reaches the document.
type Scene struct {
	Zoom       float64    `json:"zoom"`
	ActivePage int        `json:"activePage"`
	State      string     `json:"state"`
	Pages      []PageView `json:"pages"`
}

// PageView is one rendered page.
type PageView struct {
	Index      int             `json:"index"`
	ID         string          `json:"id"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Background string          `json:"background"`
	Active     bool            `json:"active"`
	Label      string          `json:"label"`
	Header     string          `json:"header,omitempty"`
	Footer     string          `json:"footer,omitempty"`
	Guides     *element.Rect   `json:"guides,omitempty"`
	PageNumber *PageNumberView `json:"pageNumber,omitempty"`
	RubberBand *element.Rect   `json:"rubberBand,omitempty"`
	// Elements are the visible elements in paint order.
	Elements []ElementView `json:"elements"`
}

// ElementView is one painted element with its interaction decorations.
type ElementView struct {
	Element  *element.Element `json:"element"`
	Label    string           `json:"label"`
	Selected bool             `json:"selected"`
	Editing  bool             `json:"editing"`
	Handles  []HandleView     `json:"handles,omitempty"`
}

// HandleView is a resize handle in page units.
type HandleView struct {
	Handle Handle       `json:"handle"`
	Rect   element.Rect `json:"rect"`
}

// PageNumberView is the page number overlay.
type PageNumberView struct {
	Text     string `json:"text"`
	Position string `json:"position"`
}

// Render projects the document into a Scene. It has no effect on the document.
func (c *Controller) Render() Scene {
	settings := c.doc.PageSettings()
	pages := c.doc.Pages()
	active := c.doc.ActivePageIndex()
	bandPage, band, banding := c.RubberBand()
	handle := c.opts.HandleSize / c.zoom

	scene := Scene{
		Zoom:       c.zoom,
		ActivePage: active,
		State:      c.state.String(),
		Pages:      make([]PageView, len(pages)),
	}
	for i, p := range pages {
		pv := PageView{
			Index:      i,
			ID:         p.ID,
			Width:      settings.Width,
			Height:     settings.Height,
			Background: p.BackgroundColor,
			Active:     i == active,
			Label:      fmt.Sprintf("Page %d of %d", i+1, len(pages)),
			Header:     settings.HeaderContent,
			Footer:     settings.FooterContent,
			Elements:   []ElementView{},
		}
		if pv.Background == "" {
			pv.Background = settings.BackgroundColor
		}
		if c.opts.ShowGuides {
			pv.Guides = &element.Rect{
				X:      settings.MarginLeft,
				Y:      settings.MarginTop,
				Width:  settings.Width - settings.MarginLeft - settings.MarginRight,
				Height: settings.Height - settings.MarginTop - settings.MarginBottom,
			}
		}
		if text, ok := PageNumberText(settings.Numbering(), i, len(pages)); ok {
			pv.PageNumber = &PageNumberView{Text: text, Position: settings.PageNumberPosition}
		}
		if banding && bandPage == i {
			r := band
			pv.RubberBand = &r
		}

		for _, el := range paintOrder(p.Elements) {
			if !el.Visible() {
				continue
			}
			ev := ElementView{
				Element:  el,
				Label:    Label(el),
				Selected: i == active && c.doc.IsSelected(el.ID),
				Editing:  c.state == EditingText && c.edit.page == i && c.edit.id == el.ID,
			}
			if ev.Selected && !el.Locked && !ev.Editing {
				for _, h := range Handles {
					ev.Handles = append(ev.Handles, HandleView{Handle: h, Rect: handleRect(el.Bounds(), h, handle)})
				}
			}
			pv.Elements = append(pv.Elements, ev)
		}
		scene.Pages[i] = pv
	}
	return scene
}

// Label returns a short human-readable description of an element for layer lists and
// accessibility text.
func Label(el *element.Element) string {
	var l labeler
	el.Accept(&l)
	return l.s
}

type labeler struct{ s string }

const labelMax = 40

func excerpt(s string) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) > labelMax {
		return string(r[:labelMax-1]) + "…"
	}
	return string(r)
}

func (l *labeler) VisitText(_ *element.Element, a *element.Text) {
	if t := htmltext.PlainText(a.Content); t != "" {
		l.s = "Text: " + excerpt(t)
		return
	}
	l.s = "Text"
}

func (l *labeler) VisitImage(*element.Element, *element.Image) { l.s = "Image" }

func (l *labeler) VisitShape(_ *element.Element, a *element.Shape) {
	l.s = "Shape: " + a.ShapeType
}

func (l *labeler) VisitTable(_ *element.Element, a *element.Table) {
	l.s = fmt.Sprintf("Table %d×%d", a.Rows, a.Cols)
}

func (l *labeler) VisitWatermark(_ *element.Element, a *element.Watermark) {
	if a.ImageSrc != "" {
		l.s = "Watermark image"
		return
	}
	l.s = "Watermark: " + excerpt(a.Text)
}

func (l *labeler) VisitSignature(_ *element.Element, a *element.Signature) {
	if a.Text != "" && a.SignatureType == element.SignatureTyped {
		l.s = "Signature: " + excerpt(a.Text)
		return
	}
	l.s = "Signature"
}

func (l *labeler) VisitComment(_ *element.Element, a *element.Comment) {
	if a.Author != "" {
		l.s = "Comment by " + a.Author
		return
	}
	l.s = "Comment"
}

func (l *labeler) VisitLink(_ *element.Element, a *element.Link) {
	l.s = "Link: " + excerpt(a.Text)
}

var _ element.Visitor = (*labeler)(nil)
