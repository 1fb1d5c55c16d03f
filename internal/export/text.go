// Package export renders documents into formats that leave the editor: plain text, a
// standalone HTML page and PNG thumbnails.
package export

import (
	"cmp"
	"slices"
	"strings"

	"docstudio/internal/document"
	"docstudio/internal/element"
	"docstudio/internal/htmltext"
)

// PageBreak separates pages in the plain-text export.
const PageBreak = "\f"

// PlainText returns the readable text of every page. Elements are visited in reading order,
// top to bottom then left to right; hidden elements, shapes, images and comments
// contribute nothing.
func PlainText(doc document.Reader) string {
	pages := doc.Pages()
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = PageText(p)
	}
	return strings.Join(out, "\n"+PageBreak+"\n")
}

// PageText returns the readable text of one page.
func PageText(p *document.Page) string {
	var tc textCollector
	for _, el := range readingOrder(p.Elements) {
		if el.Visible() {
			el.Accept(&tc)
		}
	}
	return strings.Join(tc.blocks, "\n\n")
}

func readingOrder(els []*element.Element) []*element.Element {
	out := slices.Clone(els)
	slices.SortStableFunc(out, func(a, b *element.Element) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return out
}

type textCollector struct{ blocks []string }

func (t *textCollector) add(s string) {
	if s = strings.TrimSpace(s); s != "" {
		t.blocks = append(t.blocks, s)
	}
}

func (t *textCollector) VisitText(_ *element.Element, a *element.Text) {
	t.add(htmltext.PlainText(a.Content))
}

func (t *textCollector) VisitImage(*element.Element, *element.Image) {}
func (t *textCollector) VisitShape(*element.Element, *element.Shape) {}

func (t *textCollector) VisitTable(_ *element.Element, a *element.Table) {
	rows := make([]string, 0, len(a.Cells))
	for _, row := range a.Cells {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.Join(strings.Fields(htmltext.PlainText(c.Content)), " ")
		}
		rows = append(rows, strings.TrimRight(strings.Join(cells, "\t"), "\t"))
	}
	t.add(strings.Join(rows, "\n"))
}

func (t *textCollector) VisitWatermark(*element.Element, *element.Watermark) {}

func (t *textCollector) VisitSignature(_ *element.Element, a *element.Signature) {
	if a.SignatureType == element.SignatureTyped {
		t.add(a.Text)
	}
}

func (t *textCollector) VisitComment(*element.Element, *element.Comment) {}

func (t *textCollector) VisitLink(_ *element.Element, a *element.Link) {
	if a.URL == "" || a.URL == "https://" {
		t.add(a.Text)
		return
	}
	t.add(a.Text + " <" + a.URL + ">")
}

var _ element.Visitor = (*textCollector)(nil)
