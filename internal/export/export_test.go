package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstudio/internal/canvas"
	"docstudio/internal/document"
	"docstudio/internal/element"
)

func sampleDocument(t *testing.T) *document.Document {
	t.Helper()
	d := document.New(document.Options{})
	d.AddElement(0, element.NewText(50, 300, 400, 100, "<p>Second <b>paragraph</b></p>"))
	d.AddElement(0, element.NewText(50, 100, 400, 100, "<h1>Title</h1><p>Intro</p>"))
	d.AddElement(0, element.NewShape(0, 0, element.ShapeRectangle, 50, 50))
	d.AddElement(0, element.NewComment(500, 100, "reviewer note", "Ada", time.Time{}))

	tbl := element.NewTable(50, 500, 2, 2)
	a := tbl.Attrs.(*element.Table)
	a.Cells[0][0].Content = "Name"
	a.Cells[0][1].Content = "Qty"
	a.Cells[1][0].Content = "<b>Pen</b>"
	a.Cells[1][1].Content = "3"
	d.AddElement(0, tbl)

	hidden := d.AddElement(0, element.NewText(50, 700, 100, 100, "secret"))
	d.SetElementProps(0, []string{hidden.ID}, element.Patch{Visible: new(bool)})

	d.AddPage(-1)
	d.AddElement(1, element.NewLink(10, 10, "Docs", "https://example.com"))
	return d
}

func TestPlainText(t *testing.T) {
	got := PlainText(sampleDocument(t))
	pages := strings.Split(got, "\n"+PageBreak+"\n")
	require.Len(t, pages, 2)
	assert.Equal(t, "Title\nIntro\n\nSecond paragraph\n\nName\tQty\nPen\t3", pages[0])
	assert.Equal(t, "Docs <https://example.com>", pages[1])
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "reviewer")
}

func TestHTML(t *testing.T) {
	d := sampleDocument(t)
	d.AddElement(1, element.NewText(0, 200, 100, 100, `<p onclick="x()">hi</p><script>alert(1)</script>`))
	d.SetPageNumbering(document.PageNumbering{Style: document.NumberingSimple, ShowOnFirstPage: true})
	c := canvas.New(d, canvas.DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, c.Render(), "Report <draft>"))
	out := buf.String()

	assert.Contains(t, out, "<title>Report &lt;draft&gt;</title>")
	assert.Equal(t, 2, strings.Count(out, `<section class="page"`))
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, `<a href="https://example.com"`)
	assert.Contains(t, out, "<p>hi</p>")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, `class="page-number"`)
}

func TestThumbnail(t *testing.T) {
	d := document.New(document.Options{})
	shape := element.NewShape(0, 0, element.ShapeRectangle, 816, 528)
	shape.Attrs.(*element.Shape).Fill = "#ff0000"
	d.AddElement(0, shape)

	img, err := Thumbnail(d, 0, 102)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 102, 132), img.Bounds())

	r, g, b, _ := img.At(50, 20).RGBA()
	assert.Equal(t, color.RGBA{R: 0xff}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
	r, g, b, _ = img.At(50, 110).RGBA()
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	_, err = Thumbnail(d, 3, 100)
	assert.ErrorIs(t, err, ErrPageIndex)
	_, err = Thumbnail(d, 0, 0)
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, parseColor("#123", nil))
	assert.Equal(t, color.RGBA{R: 0xab, G: 0xcd, B: 0xef, A: 0xff}, parseColor("abcdef", nil))
	assert.Nil(t, parseColor("transparent", nil))
	assert.Equal(t, color.White, parseColor("#zzzzzz", color.White))
}

type oversizedPages struct {
	*document.Document
}

func (o oversizedPages) PageSettings() document.PageSettings {
	s := o.Document.PageSettings()
	s.Width, s.Height = 1e9, 1e9
	return s
}

func TestThumbnail_BoundsPageRaster(t *testing.T) {
	img, err := Thumbnail(oversizedPages{document.New(document.Options{})}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
}
