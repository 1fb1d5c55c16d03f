package document

import "fmt"

// Orientation values.
const (
	Portrait  = "portrait"
	Landscape = "landscape"
)

// Page number styles. NumberingNone hides page numbers.
const (
	NumberingNone      = "none"
	NumberingSimple    = "simple"
	NumberingDecorated = "decorated"
	NumberingPageOf    = "page-of"
)

// Page number formats.
const (
	FormatDecimal    = "decimal"
	FormatRoman      = "roman"
	FormatRomanUpper = "roman-upper"
	FormatAlpha      = "alpha"
	FormatAlphaUpper = "alpha-upper"
)

// Page number anchor positions.
const (
	TopLeft      = "top-left"
	TopCenter    = "top-center"
	TopRight     = "top-right"
	BottomLeft   = "bottom-left"
	BottomCenter = "bottom-center"
	BottomRight  = "bottom-right"
)

// PageSettings holds the geometry and numbering shared by every page. Units are CSS pixels
// at 96 per inch.
type PageSettings struct {
	Width               float64 `json:"width"`
	Height              float64 `json:"height"`
	MarginTop           float64 `json:"marginTop"`
	MarginBottom        float64 `json:"marginBottom"`
	MarginLeft          float64 `json:"marginLeft"`
	MarginRight         float64 `json:"marginRight"`
	Orientation         string  `json:"orientation"`
	Size                string  `json:"size"`
	PageNumberStyle     string  `json:"pageNumberStyle"`
	PageNumberPosition  string  `json:"pageNumberPosition"`
	PageNumberFormat    string  `json:"pageNumberFormat"`
	PageNumberStartFrom int     `json:"pageNumberStartFrom"`
	PageNumberPrefix    string  `json:"pageNumberPrefix,omitempty"`
	PageNumberSuffix    string  `json:"pageNumberSuffix,omitempty"`
	ShowOnFirstPage     bool    `json:"showOnFirstPage"`
	HeaderContent       string  `json:"headerContent"`
	FooterContent       string  `json:"footerContent"`
	BackgroundColor     string  `json:"backgroundColor"`
	Columns             int     `json:"columns"`
}

// DefaultPageSettings returns US Letter portrait with one-inch margins and no page numbers.
func DefaultPageSettings() PageSettings {
	return PageSettings{
		Width:               816,
		Height:              1056,
		MarginTop:           96,
		MarginBottom:        96,
		MarginLeft:          96,
		MarginRight:         96,
		Orientation:         Portrait,
		Size:                "letter",
		PageNumberStyle:     NumberingNone,
		PageNumberPosition:  BottomCenter,
		PageNumberFormat:    FormatDecimal,
		PageNumberStartFrom: 1,
		ShowOnFirstPage:     true,
		BackgroundColor:     "#ffffff",
		Columns:             1,
	}
}

// PageSize is a named paper size in portrait orientation.
type PageSize struct {
	Width  float64
	Height float64
}

// PageSizes are the supported paper sizes.
var PageSizes = map[string]PageSize{
	"letter":    {816, 1056},
	"a4":        {794, 1123},
	"a3":        {1123, 1587},
	"legal":     {816, 1344},
	"a5":        {559, 794},
	"b5":        {665, 945},
	"executive": {696, 1008},
	"tabloid":   {1056, 1632},
}

// Margins are page margins in page units.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// MarginPresets are the named margin sets offered by the layout ribbon.
var MarginPresets = map[string]Margins{
	"normal":   {Top: 96, Bottom: 96, Left: 96, Right: 96},
	"narrow":   {Top: 48, Bottom: 48, Left: 48, Right: 48},
	"moderate": {Top: 96, Bottom: 96, Left: 72, Right: 72},
	"wide":     {Top: 96, Bottom: 96, Left: 192, Right: 192},
	"mirrored": {Top: 96, Bottom: 96, Left: 120, Right: 96},
}

// PageNumbering is the page-number subset of PageSettings.
type PageNumbering struct {
	Style           string `json:"style"`
	Position        string `json:"position"`
	Format          string `json:"format"`
	StartFrom       int    `json:"startFrom"`
	Prefix          string `json:"prefix,omitempty"`
	Suffix          string `json:"suffix,omitempty"`
	ShowOnFirstPage bool   `json:"showOnFirstPage"`
}

// Numbering returns the page-number configuration.
func (s PageSettings) Numbering() PageNumbering {
	return PageNumbering{
		Style:           s.PageNumberStyle,
		Position:        s.PageNumberPosition,
		Format:          s.PageNumberFormat,
		StartFrom:       s.PageNumberStartFrom,
		Prefix:          s.PageNumberPrefix,
		Suffix:          s.PageNumberSuffix,
		ShowOnFirstPage: s.ShowOnFirstPage,
	}
}

// Margins returns the page margins.
func (s PageSettings) Margins() Margins {
	return Margins{Top: s.MarginTop, Right: s.MarginRight, Bottom: s.MarginBottom, Left: s.MarginLeft}
}

// Page sides loaded from a snapshot are clamped to [MinPageSide, MaxPageSide] (1 to 50
// inches at 96 dpi).
const (
	MinPageSide = 96
	MaxPageSide = 4800
)

func (s *PageSettings) clampGeometry() {
	s.Width = min(max(s.Width, MinPageSide), MaxPageSide)
	s.Height = min(max(s.Height, MinPageSide), MaxPageSide)
}

// PageSettings returns a copy of the page settings.
func (d *Document) PageSettings() PageSettings { return d.settings }

// SetPageSize applies a named paper size, keeping the current orientation.
func (d *Document) SetPageSize(name string) error {
	s, ok := PageSizes[name]
	if !ok {
		return fmt.Errorf("page size %q: %w", name, ErrUnknownPreset)
	}
	d.settings.Size = name
	if d.settings.Orientation == Landscape {
		d.settings.Width, d.settings.Height = s.Height, s.Width
	} else {
		d.settings.Width, d.settings.Height = s.Width, s.Height
	}
	d.Commit()
	return nil
}

// SetOrientation swaps width and height when the orientation changes.
func (d *Document) SetOrientation(o string) error {
	if o != Portrait && o != Landscape {
		return fmt.Errorf("orientation %q: %w", o, ErrUnknownPreset)
	}
	if o == d.settings.Orientation {
		return nil
	}
	d.settings.Orientation = o
	d.settings.Width, d.settings.Height = d.settings.Height, d.settings.Width
	d.Commit()
	return nil
}

// SetMarginPreset applies one of MarginPresets.
func (d *Document) SetMarginPreset(name string) error {
	m, ok := MarginPresets[name]
	if !ok {
		return fmt.Errorf("margin preset %q: %w", name, ErrUnknownPreset)
	}
	d.SetMargins(m)
	return nil
}

// SetMargins sets all four margins. Negative values are clamped to zero.
func (d *Document) SetMargins(m Margins) {
	d.settings.MarginTop = max(m.Top, 0)
	d.settings.MarginRight = max(m.Right, 0)
	d.settings.MarginBottom = max(m.Bottom, 0)
	d.settings.MarginLeft = max(m.Left, 0)
	d.Commit()
}

// SetPageNumbering replaces the page-number configuration. StartFrom below 1 becomes 1.
func (d *Document) SetPageNumbering(n PageNumbering) {
	if n.Style == "" {
		n.Style = NumberingNone
	}
	if n.Format == "" {
		n.Format = FormatDecimal
	}
	if n.Position == "" {
		n.Position = BottomCenter
	}
	d.settings.PageNumberStyle = n.Style
	d.settings.PageNumberPosition = n.Position
	d.settings.PageNumberFormat = n.Format
	d.settings.PageNumberStartFrom = max(n.StartFrom, 1)
	d.settings.PageNumberPrefix = n.Prefix
	d.settings.PageNumberSuffix = n.Suffix
	d.settings.ShowOnFirstPage = n.ShowOnFirstPage
	d.Commit()
}

// SetColumns sets the text column count (at least one).
func (d *Document) SetColumns(n int) {
	d.settings.Columns = max(n, 1)
	d.Commit()
}

// SetHeaderFooter sets the running header and footer content.
func (d *Document) SetHeaderFooter(header, footer string) {
	d.settings.HeaderContent = header
	d.settings.FooterContent = footer
	d.Commit()
}

// SetPageBackground sets the background color of one page.
func (d *Document) SetPageBackground(pageIndex int, color string) error {
	if pageIndex < 0 || pageIndex >= len(d.pages) {
		return ErrPageIndex
	}
	d.pages[pageIndex].BackgroundColor = color
	d.Commit()
	return nil
}
