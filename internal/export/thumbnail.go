package export

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"docstudio/internal/document"
	"docstudio/internal/element"
)

// ErrPageIndex is returned by Thumbnail for a page that does not exist.
var ErrPageIndex = errors.New("export: page index out of range")

// MaxThumbnailWidth bounds the width accepted by Thumbnail.
const MaxThumbnailWidth = 2048

// Thumbnail paints a simplified preview of one page and scales it to width pixels, keeping
// the page aspect ratio. Elements are drawn as filled boxes in paint order.
func Thumbnail(doc document.Reader, pageIndex, width int) (image.Image, error) {
	pages := doc.Pages()
	if pageIndex < 0 || pageIndex >= len(pages) {
		return nil, ErrPageIndex
	}
	if width <= 0 || width > MaxThumbnailWidth {
		return nil, fmt.Errorf("export: thumbnail width %d out of range", width)
	}
	settings := doc.PageSettings()
	page := pages[pageIndex]

	pw := min(max(int(settings.Width), 1), document.MaxPageSide)
	ph := min(max(int(settings.Height), 1), document.MaxPageSide)
	full := image.NewRGBA(image.Rect(0, 0, pw, ph))
	bg := page.BackgroundColor
	if bg == "" {
		bg = settings.BackgroundColor
	}
	draw.Draw(full, full.Bounds(), image.NewUniform(parseColor(bg, color.White)), image.Point{}, draw.Src)

	els := slices.Clone(page.Elements)
	slices.SortStableFunc(els, func(a, b *element.Element) int { return cmp.Compare(a.ZIndex, b.ZIndex) })
	for _, el := range els {
		if !el.Visible() || el.Opacity <= 0 {
			continue
		}
		var p painter
		el.Accept(&p)
		if p.fill == nil {
			continue
		}
		r := image.Rect(int(el.X), int(el.Y), int(el.X+el.Width), int(el.Y+el.Height)).Intersect(full.Bounds())
		if r.Empty() {
			continue
		}
		mask := image.NewUniform(color.Alpha{A: uint8(element.ClampOpacity(el.Opacity) * 255)})
		draw.DrawMask(full, r, image.NewUniform(p.fill), image.Point{}, mask, image.Point{}, draw.Over)
	}

	height := max(width*ph/pw, 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), full, full.Bounds(), draw.Over, nil)
	return dst, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// painter picks the preview colour of an element; nil leaves it unpainted.
type painter struct{ fill color.Color }

var (
	textGray    = color.RGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	imageGray   = color.RGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
	tableBlue   = color.RGBA{R: 0xdb, G: 0xea, B: 0xfe, A: 0xff}
	linkBlue    = color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	markFaint   = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	commentNote = color.RGBA{R: 0xff, G: 0xf9, B: 0xc4, A: 0xff}
)

func (p *painter) VisitText(_ *element.Element, a *element.Text) {
	p.fill = parseColor(a.BackgroundColor, textGray)
}

func (p *painter) VisitImage(*element.Element, *element.Image) { p.fill = imageGray }

func (p *painter) VisitShape(_ *element.Element, a *element.Shape) {
	p.fill = parseColor(a.Fill, parseColor(a.Stroke, nil))
}

func (p *painter) VisitTable(*element.Element, *element.Table) { p.fill = tableBlue }

func (p *painter) VisitWatermark(*element.Element, *element.Watermark) { p.fill = markFaint }

func (p *painter) VisitSignature(_ *element.Element, a *element.Signature) {
	p.fill = parseColor(a.Color, textGray)
}

func (p *painter) VisitComment(_ *element.Element, a *element.Comment) {
	p.fill = parseColor(a.Color, commentNote)
}

func (p *painter) VisitLink(_ *element.Element, a *element.Link) {
	p.fill = parseColor(a.Color, linkBlue)
}

var _ element.Visitor = (*painter)(nil)

// parseColor reads #rgb and #rrggbb colours, returning fallback for anything else,
// including "transparent".
func parseColor(s string, fallback color.Color) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
