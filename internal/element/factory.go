package element

import "time"

// Default sizes per kind, in page units (96 per inch).
const (
	DefaultTextWidth       = 300
	DefaultTextHeight      = 100
	DefaultImageWidth      = 300
	DefaultImageHeight     = 200
	DefaultShapeWidth      = 150
	DefaultShapeHeight     = 100
	DefaultTableRows       = 3
	DefaultTableCols       = 3
	DefaultCellWidth       = 120
	DefaultCellHeight      = 36
	DefaultSignatureWidth  = 250
	DefaultSignatureHeight = 80
	DefaultCommentWidth    = 200
	DefaultCommentHeight   = 120
	DefaultLinkWidth       = 200
	DefaultLinkHeight      = 30

	DefaultFontFamily = "Inter"
	DefaultTextBody   = "<p>Type your text here...</p>"
)

// base returns an element carrying the common defaults.
func base(x, y, w, h float64, attrs Attrs) *Element {
	return &Element{
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		ZIndex:  AutoZ,
		Opacity: 1,
		Attrs:   attrs,
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// NewText creates a text box. Non-positive sizes and an empty content take defaults.
func NewText(x, y, w, h float64, content string) *Element {
	a := defaultText()
	if content != "" {
		a.Content = content
	}
	return base(x, y, orDefault(w, DefaultTextWidth), orDefault(h, DefaultTextHeight), a)
}

func defaultText() *Text {
	return &Text{
		Content:         DefaultTextBody,
		FontFamily:      DefaultFontFamily,
		FontSize:        14,
		FontWeight:      "normal",
		FontStyle:       "normal",
		TextDecoration:  "none",
		TextAlign:       "left",
		LineHeight:      1.5,
		Color:           "#000000",
		BackgroundColor: "transparent",
		BorderColor:     "transparent",
		Padding:         8,
	}
}

// NewImage creates an image element for src.
func NewImage(x, y float64, src string, w, h float64) *Element {
	a := defaultImage()
	a.Src = src
	return base(x, y, orDefault(w, DefaultImageWidth), orDefault(h, DefaultImageHeight), a)
}

func defaultImage() *Image {
	return &Image{
		ObjectFit:   "contain",
		Brightness:  100,
		Contrast:    100,
		Saturation:  100,
		BorderColor: "transparent",
	}
}

// NewShape creates a vector shape; an empty shapeType is a rectangle.
func NewShape(x, y float64, shapeType string, w, h float64) *Element {
	a := defaultShape()
	if shapeType != "" {
		a.ShapeType = shapeType
	}
	return base(x, y, orDefault(w, DefaultShapeWidth), orDefault(h, DefaultShapeHeight), a)
}

func defaultShape() *Shape {
	return &Shape{
		ShapeType:   ShapeRectangle,
		Fill:        "#4a90d9",
		Stroke:      "#2c5f8a",
		StrokeWidth: 2,
	}
}

// NewTable creates a rows×cols table whose first row is a shaded bold header.
func NewTable(x, y float64, rows, cols int) *Element {
	if rows <= 0 {
		rows = DefaultTableRows
	}
	if cols <= 0 {
		cols = DefaultTableCols
	}
	a := &Table{
		Rows:        rows,
		Cols:        cols,
		Cells:       make([][]Cell, rows),
		CellWidth:   DefaultCellWidth,
		CellHeight:  DefaultCellHeight,
		BorderColor: "#bdc3c7",
		BorderWidth: 1,
	}
	for r := range a.Cells {
		a.Cells[r] = make([]Cell, cols)
		for c := range a.Cells[r] {
			a.Cells[r][c] = NewCell(r == 0)
		}
	}
	return base(x, y, float64(cols)*DefaultCellWidth, float64(rows)*DefaultCellHeight, a)
}

// NewCell returns a defaulted table cell.
func NewCell(header bool) Cell {
	c := Cell{
		BgColor:       "#ffffff",
		FontFamily:    DefaultFontFamily,
		FontSize:      12,
		FontWeight:    "normal",
		Color:         "#000000",
		TextAlign:     "left",
		VerticalAlign: "middle",
		BorderColor:   "#bdc3c7",
		BorderWidth:   1,
		Padding:       6,
		ColSpan:       1,
		RowSpan:       1,
	}
	if header {
		c.BgColor = "#e8eef4"
		c.FontWeight = "bold"
	}
	return c
}

// WatermarkOptions seeds a watermark. Zero fields take defaults.
type WatermarkOptions struct {
	FontFamily string
	FontSize   float64
	Color      string
	Rotation   float64
	Opacity    float64
	SubType    string
	ImageSrc   string
	Blur       float64
}

// NewWatermark creates a locked watermark covering a page of the given size.
func NewWatermark(text string, pageWidth, pageHeight float64, opts WatermarkOptions) *Element {
	a := defaultWatermark()
	if text != "" {
		a.Text = text
	}
	if opts.FontFamily != "" {
		a.FontFamily = opts.FontFamily
	}
	if opts.FontSize > 0 {
		a.FontSize = opts.FontSize
	}
	if opts.Color != "" {
		a.Color = opts.Color
	}
	if opts.SubType != "" {
		a.SubType = opts.SubType
	}
	a.ImageSrc = opts.ImageSrc
	a.Blur = opts.Blur

	e := base(0, 0, pageWidth, pageHeight, a)
	e.Rotation = -45
	if opts.Rotation != 0 {
		e.Rotation = opts.Rotation
	}
	e.Opacity = 0.3
	if opts.Opacity > 0 {
		e.Opacity = opts.Opacity
	}
	e.Locked = true
	return e
}

func defaultWatermark() *Watermark {
	return &Watermark{
		Text:       "CONFIDENTIAL",
		FontFamily: DefaultFontFamily,
		FontSize:   72,
		Color:      "rgba(200,200,200,0.3)",
		SubType:    "text",
	}
}

// NewSignature creates an empty drawn signature.
func NewSignature(x, y float64) *Element {
	return base(x, y, DefaultSignatureWidth, DefaultSignatureHeight, defaultSignature())
}

func defaultSignature() *Signature {
	return &Signature{
		SignatureType: SignatureDrawn,
		FontFamily:    "Dancing Script",
		FontSize:      32,
		Color:         "#000080",
		BorderBottom:  "2px solid #333",
	}
}

// NewComment creates a review comment stamped with now.
func NewComment(x, y float64, text, author string, now time.Time) *Element {
	a := defaultComment()
	a.Text = text
	if author != "" {
		a.Author = author
	}
	a.Date = now.UTC().Format(time.RFC3339)
	return base(x, y, DefaultCommentWidth, DefaultCommentHeight, a)
}

func defaultComment() *Comment {
	return &Comment{Author: "User", Color: "#fff9c4"}
}

// NewLink creates a hyperlink label.
func NewLink(x, y float64, text, url string) *Element {
	a := defaultLink()
	if text != "" {
		a.Text = text
	}
	if url != "" {
		a.URL = url
	}
	return base(x, y, DefaultLinkWidth, DefaultLinkHeight, a)
}

func defaultLink() *Link {
	return &Link{
		Text:           "Click here",
		URL:            "https://",
		FontFamily:     DefaultFontFamily,
		FontSize:       14,
		Color:          "#1a73e8",
		TextDecoration: "underline",
	}
}

// defaultAttrs returns the factory defaults of kind, used as the decode target so that
// attributes missing from JSON input keep their defaults.
func defaultAttrs(kind Kind) Attrs {
	switch kind {
	case KindText:
		return defaultText()
	case KindImage:
		return defaultImage()
	case KindShape:
		return defaultShape()
	case KindTable:
		return &Table{CellWidth: DefaultCellWidth, CellHeight: DefaultCellHeight, BorderColor: "#bdc3c7", BorderWidth: 1}
	case KindWatermark:
		return defaultWatermark()
	case KindSignature:
		return defaultSignature()
	case KindComment:
		return defaultComment()
	case KindLink:
		return defaultLink()
	}
	return nil
}
