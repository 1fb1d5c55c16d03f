package element

// Text is a rich text box; Content is an HTML fragment.
type Text struct {
	Content         string  `json:"content"`
	FontFamily      string  `json:"fontFamily"`
	FontSize        float64 `json:"fontSize"`
	FontWeight      string  `json:"fontWeight"`
	FontStyle       string  `json:"fontStyle"`
	TextDecoration  string  `json:"textDecoration"`
	TextAlign       string  `json:"textAlign"`
	LineHeight      float64 `json:"lineHeight"`
	LetterSpacing   float64 `json:"letterSpacing"`
	WordSpacing     float64 `json:"wordSpacing"`
	Color           string  `json:"color"`
	BackgroundColor string  `json:"backgroundColor"`
	BorderColor     string  `json:"borderColor"`
	BorderWidth     float64 `json:"borderWidth"`
	Padding         float64 `json:"padding"`
}

// Image is a raster picture referenced by URL or data URL.
type Image struct {
	Src          string  `json:"src"`
	ObjectFit    string  `json:"objectFit"`
	Brightness   float64 `json:"brightness"`
	Contrast     float64 `json:"contrast"`
	Saturation   float64 `json:"saturation"`
	Hue          float64 `json:"hue"`
	Blur         float64 `json:"blur"`
	BorderRadius float64 `json:"borderRadius"`
	BorderColor  string  `json:"borderColor"`
	BorderWidth  float64 `json:"borderWidth"`
	CropTop      float64 `json:"cropTop"`
	CropRight    float64 `json:"cropRight"`
	CropBottom   float64 `json:"cropBottom"`
	CropLeft     float64 `json:"cropLeft"`
}

// Shape types.
const (
	ShapeRectangle = "rectangle"
	ShapeCircle    = "circle"
	ShapeTriangle  = "triangle"
	ShapeLine      = "line"
	ShapeArrow     = "arrow"
	ShapeStar      = "star"
)

// Shape is a vector primitive.
type Shape struct {
	ShapeType    string  `json:"shapeType"`
	Fill         string  `json:"fill"`
	Stroke       string  `json:"stroke"`
	StrokeWidth  float64 `json:"strokeWidth"`
	BorderRadius float64 `json:"borderRadius"`
}

// Cell is one cell of a table grid.
type Cell struct {
	Content       string  `json:"content"`
	BgColor       string  `json:"bgColor"`
	FontFamily    string  `json:"fontFamily"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    string  `json:"fontWeight"`
	Color         string  `json:"color"`
	TextAlign     string  `json:"textAlign"`
	VerticalAlign string  `json:"verticalAlign"`
	BorderColor   string  `json:"borderColor"`
	BorderWidth   float64 `json:"borderWidth"`
	Padding       float64 `json:"padding"`
	ColSpan       int     `json:"colSpan"`
	RowSpan       int     `json:"rowSpan"`
}

// Table is a rows×cols grid of cells.
type Table struct {
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Cells       [][]Cell `json:"cells"`
	CellWidth   float64  `json:"cellWidth"`
	CellHeight  float64  `json:"cellHeight"`
	BorderColor string   `json:"borderColor"`
	BorderWidth float64  `json:"borderWidth"`
}

// Cell returns the cell at (r, c) or nil when out of range.
func (t *Table) Cell(r, c int) *Cell {
	if r < 0 || r >= len(t.Cells) || c < 0 || c >= len(t.Cells[r]) {
		return nil
	}
	return &t.Cells[r][c]
}

// Watermark is a page-sized text or image mark painted behind or over content.
type Watermark struct {
	Text       string  `json:"text"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	Color      string  `json:"color"`
	SubType    string  `json:"subType"`
	ImageSrc   string  `json:"imageSrc"`
	Blur       float64 `json:"blur"`
}

// Signature types.
const (
	SignatureDrawn    = "draw"
	SignatureTyped    = "type"
	SignatureUploaded = "upload"
)

// Signature is a drawn, typed or uploaded signature.
type Signature struct {
	DataURL       string  `json:"dataUrl"`
	SignatureType string  `json:"signatureType"`
	Text          string  `json:"text"`
	FontFamily    string  `json:"fontFamily"`
	FontSize      float64 `json:"fontSize"`
	Color         string  `json:"color"`
	BorderBottom  string  `json:"borderBottom"`
}

// Comment is a sticky review note.
type Comment struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Color    string `json:"color"`
	Resolved bool   `json:"resolved"`
}

// Link is a clickable hyperlink label.
type Link struct {
	Text           string  `json:"text"`
	URL            string  `json:"url"`
	FontFamily     string  `json:"fontFamily"`
	FontSize       float64 `json:"fontSize"`
	Color          string  `json:"color"`
	TextDecoration string  `json:"textDecoration"`
}

func (*Text) Kind() Kind      { return KindText }
func (*Image) Kind() Kind     { return KindImage }
func (*Shape) Kind() Kind     { return KindShape }
func (*Table) Kind() Kind     { return KindTable }
func (*Watermark) Kind() Kind { return KindWatermark }
func (*Signature) Kind() Kind { return KindSignature }
func (*Comment) Kind() Kind   { return KindComment }
func (*Link) Kind() Kind      { return KindLink }

func (a *Text) accept(e *Element, v Visitor)      { v.VisitText(e, a) }
func (a *Image) accept(e *Element, v Visitor)     { v.VisitImage(e, a) }
func (a *Shape) accept(e *Element, v Visitor)     { v.VisitShape(e, a) }
func (a *Table) accept(e *Element, v Visitor)     { v.VisitTable(e, a) }
func (a *Watermark) accept(e *Element, v Visitor) { v.VisitWatermark(e, a) }
func (a *Signature) accept(e *Element, v Visitor) { v.VisitSignature(e, a) }
func (a *Comment) accept(e *Element, v Visitor)   { v.VisitComment(e, a) }
func (a *Link) accept(e *Element, v Visitor)      { v.VisitLink(e, a) }

func (a *Text) clone() Attrs      { c := *a; return &c }
func (a *Image) clone() Attrs     { c := *a; return &c }
func (a *Shape) clone() Attrs     { c := *a; return &c }
func (a *Watermark) clone() Attrs { c := *a; return &c }
func (a *Signature) clone() Attrs { c := *a; return &c }
func (a *Comment) clone() Attrs   { c := *a; return &c }
func (a *Link) clone() Attrs      { c := *a; return &c }

func (a *Table) clone() Attrs {
	c := *a
	if a.Cells != nil {
		c.Cells = make([][]Cell, len(a.Cells))
		for i, row := range a.Cells {
			c.Cells[i] = make([]Cell, len(row))
			copy(c.Cells[i], row)
		}
	}
	return &c
}
