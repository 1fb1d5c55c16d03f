package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"docstudio/internal/canvas"
	"docstudio/internal/element"
	"docstudio/internal/htmltext"
)

var pageTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; background: #e5e7eb; }
.page { position: relative; margin: 24px auto; overflow: hidden; box-shadow: 0 1px 4px rgba(0,0,0,.2); }
.el { position: absolute; box-sizing: border-box; }
.page-number { position: absolute; font: 12px sans-serif; color: #555; }
</style>
</head>
<body>
{{range .Pages}}<section class="page" id="{{.ID}}" style="width:{{.Width}}px;height:{{.Height}}px;background:{{.Background}}">
{{range .Elements}}<div class="el {{.Kind}}" style="{{.Style}}">{{.Body}}</div>
{{end}}{{with .Number}}<div class="page-number" style="{{.Style}}">{{.Text}}</div>
{{end}}</section>
{{end}}</body>
</html>
`))

type htmlDoc struct {
	Title string
	Pages []htmlPage
}

type htmlPage struct {
	ID         string
	Width      float64
	Height     float64
	Background template.CSS
	Elements   []htmlElement
	Number     *htmlNumber
}

type htmlElement struct {
	Kind  string
	Style template.CSS
	Body  template.HTML
}

type htmlNumber struct {
	Text  string
	Style template.CSS
}

// HTML writes the scene as a standalone HTML page. Text content is sanitized; selection
// and editing decorations are not exported.
func HTML(w io.Writer, scene canvas.Scene, title string) error {
	doc := htmlDoc{Title: title, Pages: make([]htmlPage, len(scene.Pages))}
	for i, pv := range scene.Pages {
		hp := htmlPage{
			ID:         pv.ID,
			Width:      pv.Width,
			Height:     pv.Height,
			Background: cssValue(pv.Background),
			Elements:   make([]htmlElement, 0, len(pv.Elements)),
		}
		for _, ev := range pv.Elements {
			var b htmlBuilder
			ev.Element.Accept(&b)
			hp.Elements = append(hp.Elements, htmlElement{
				Kind:  string(ev.Element.Kind()),
				Style: template.CSS(boxStyle(ev.Element) + b.style),
				Body:  template.HTML(b.body),
			})
		}
		if pv.PageNumber != nil {
			hp.Number = &htmlNumber{Text: pv.PageNumber.Text, Style: template.CSS(numberStyle(pv.PageNumber.Position))}
		}
		doc.Pages[i] = hp
	}
	if err := pageTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

func boxStyle(el *element.Element) string {
	s := fmt.Sprintf("left:%gpx;top:%gpx;width:%gpx;height:%gpx;z-index:%d;opacity:%g;",
		el.X, el.Y, el.Width, el.Height, el.ZIndex, el.Opacity)
	if el.Rotation != 0 {
		s += fmt.Sprintf("transform:rotate(%gdeg);", el.Rotation)
	}
	return s
}

func numberStyle(position string) string {
	vertical, horizontal, _ := strings.Cut(position, "-")
	s := "bottom:24px;"
	if vertical == "top" {
		s = "top:24px;"
	}
	switch horizontal {
	case "left":
		s += "left:48px;"
	case "right":
		s += "right:48px;"
	default:
		s += "left:0;right:0;text-align:center;"
	}
	return s
}

// cssValue drops characters that could end a declaration.
func cssValue(v string) template.CSS {
	return template.CSS(strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, v))
}

func prop(name, value string) string {
	if value == "" {
		return ""
	}
	return name + ":" + string(cssValue(value)) + ";"
}

func px(name string, v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%gpx;", name, v)
}

type htmlBuilder struct {
	style string
	body  string
}

func (b *htmlBuilder) VisitText(_ *element.Element, a *element.Text) {
	b.style = prop("font-family", a.FontFamily) + px("font-size", a.FontSize) +
		prop("font-weight", a.FontWeight) + prop("font-style", a.FontStyle) +
		prop("text-align", a.TextAlign) + prop("color", a.Color) +
		prop("background", a.BackgroundColor) + px("padding", a.Padding)
	if a.LineHeight > 0 {
		b.style += fmt.Sprintf("line-height:%g;", a.LineHeight)
	}
	b.body = htmltext.Sanitize(a.Content)
}

func (b *htmlBuilder) VisitImage(_ *element.Element, a *element.Image) {
	b.body = fmt.Sprintf(`<img src="%s" style="width:100%%;height:100%%;object-fit:%s" alt="">`,
		template.HTMLEscapeString(safeSrc(a.Src)), template.HTMLEscapeString(string(cssValue(a.ObjectFit))))
}

func (b *htmlBuilder) VisitShape(_ *element.Element, a *element.Shape) {
	b.style = prop("background", a.Fill) + prop("border-color", a.Stroke) + px("border-width", a.StrokeWidth)
	if a.StrokeWidth > 0 {
		b.style += "border-style:solid;"
	}
	switch a.ShapeType {
	case element.ShapeCircle:
		b.style += "border-radius:50%;"
	case element.ShapeRectangle:
		b.style += px("border-radius", a.BorderRadius)
	}
}

func (b *htmlBuilder) VisitTable(_ *element.Element, a *element.Table) {
	var sb strings.Builder
	sb.WriteString(`<table style="border-collapse:collapse;width:100%;height:100%">`)
	for _, row := range a.Cells {
		sb.WriteString("<tr>")
		for _, c := range row {
			style := prop("background", c.BgColor) + prop("color", c.Color) + px("font-size", c.FontSize) +
				prop("text-align", c.TextAlign) + px("padding", c.Padding)
			if c.BorderWidth > 0 {
				style += fmt.Sprintf("border:%gpx solid %s;", c.BorderWidth, cssValue(c.BorderColor))
			}
			sb.WriteString(`<td style="` + template.HTMLEscapeString(style) + `">`)
			sb.WriteString(htmltext.Sanitize(c.Content))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
	b.body = sb.String()
}

func (b *htmlBuilder) VisitWatermark(_ *element.Element, a *element.Watermark) {
	if a.ImageSrc != "" {
		b.body = fmt.Sprintf(`<img src="%s" style="width:100%%;height:100%%;object-fit:contain" alt="">`,
			template.HTMLEscapeString(safeSrc(a.ImageSrc)))
		return
	}
	b.style = "display:flex;align-items:center;justify-content:center;" +
		prop("font-family", a.FontFamily) + px("font-size", a.FontSize) + prop("color", a.Color)
	b.body = template.HTMLEscapeString(a.Text)
}

func (b *htmlBuilder) VisitSignature(_ *element.Element, a *element.Signature) {
	b.style = prop("border-bottom", a.BorderBottom)
	if a.SignatureType == element.SignatureTyped {
		b.style += prop("font-family", a.FontFamily) + px("font-size", a.FontSize) + prop("color", a.Color)
		b.body = template.HTMLEscapeString(a.Text)
		return
	}
	if a.DataURL != "" {
		b.body = fmt.Sprintf(`<img src="%s" style="width:100%%;height:100%%;object-fit:contain" alt="">`,
			template.HTMLEscapeString(safeSrc(a.DataURL)))
	}
}

func (b *htmlBuilder) VisitComment(_ *element.Element, a *element.Comment) {
	b.style = prop("background", a.Color) + "padding:6px;font:12px sans-serif;"
	b.body = fmt.Sprintf("<strong>%s</strong><br>%s",
		template.HTMLEscapeString(a.Author), template.HTMLEscapeString(a.Text))
}

func (b *htmlBuilder) VisitLink(_ *element.Element, a *element.Link) {
	b.style = prop("font-family", a.FontFamily) + px("font-size", a.FontSize)
	b.body = fmt.Sprintf(`<a href="%s" style="color:%s;text-decoration:%s">%s</a>`,
		template.HTMLEscapeString(safeSrc(a.URL)), template.HTMLEscapeString(string(cssValue(a.Color))),
		template.HTMLEscapeString(string(cssValue(a.TextDecoration))), template.HTMLEscapeString(a.Text))
}

var _ element.Visitor = (*htmlBuilder)(nil)

// safeSrc blanks script URLs.
func safeSrc(u string) string {
	l := strings.ToLower(strings.TrimSpace(u))
	if strings.HasPrefix(l, "javascript:") || strings.HasPrefix(l, "vbscript:") {
		return ""
	}
	return u
}
