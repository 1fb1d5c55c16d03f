// Package element defines the positioned visual objects placed on document pages and the
// factories that build them with every attribute defaulted.
package element

// Kind discriminates the element union. The values are the "type" tags of the JSON form.
type Kind string

const (
	KindText      Kind = "textbox"
	KindImage     Kind = "image"
	KindShape     Kind = "shape"
	KindTable     Kind = "table"
	KindWatermark Kind = "watermark"
	KindSignature Kind = "signature"
	KindComment   Kind = "comment"
	KindLink      Kind = "link"
)

// Kinds lists every element kind in a stable order.
var Kinds = []Kind{KindText, KindImage, KindShape, KindTable, KindWatermark, KindSignature, KindComment, KindLink}

// AutoZ marks an element whose z-index is assigned on insertion.
const AutoZ = -1 << 31

// Attrs is the kind-specific payload of an element. It is implemented only by the kind
// structs of this package.
type Attrs interface {
	Kind() Kind
	accept(e *Element, v Visitor)
	clone() Attrs
}

// Visitor receives an element together with its typed payload. Every site that interprets
// element kinds implements it, so a new kind cannot be added without handling it everywhere.
type Visitor interface {
	VisitText(e *Element, a *Text)
	VisitImage(e *Element, a *Image)
	VisitShape(e *Element, a *Shape)
	VisitTable(e *Element, a *Table)
	VisitWatermark(e *Element, a *Watermark)
	VisitSignature(e *Element, a *Signature)
	VisitComment(e *Element, a *Comment)
	VisitLink(e *Element, a *Link)
}

// Element is a positioned, sized object on a page. Coordinates are page-local units with
// the origin at the top-left corner of the page.
type Element struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	ZIndex   int
	Opacity  float64
	Rotation float64
	Locked   bool
	// Hidden is the inverse of the serialized "visible" flag so the zero value is visible.
	Hidden  bool
	GroupID string
	Attrs   Attrs
}

// Kind returns the element kind, or "" for an element without payload.
func (e *Element) Kind() Kind {
	if e == nil || e.Attrs == nil {
		return ""
	}
	return e.Attrs.Kind()
}

// Visible reports whether the element is painted.
func (e *Element) Visible() bool { return !e.Hidden }

// Bounds returns the axis-aligned bounding box (rotation is ignored).
func (e *Element) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Accept dispatches to the visitor method of the element's kind.
func (e *Element) Accept(v Visitor) {
	if e.Attrs != nil {
		e.Attrs.accept(e, v)
	}
}

// Clone returns a deep copy sharing no memory with e.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	if e.Attrs != nil {
		c.Attrs = e.Attrs.clone()
	}
	return &c
}

// Editable reports whether the kind supports in-place text editing.
func (e *Element) Editable() bool {
	switch e.Kind() {
	case KindText, KindComment:
		return true
	}
	return false
}

// TextContent returns the textual body of the element: HTML content for text boxes and the
// plain text of comments, links, watermarks and typed signatures.
func (e *Element) TextContent() string {
	switch a := e.Attrs.(type) {
	case *Text:
		return a.Content
	case *Comment:
		return a.Text
	case *Link:
		return a.Text
	case *Watermark:
		return a.Text
	case *Signature:
		return a.Text
	}
	return ""
}

// SetTextContent replaces the textual body. It returns false for kinds without one.
func (e *Element) SetTextContent(s string) bool {
	switch a := e.Attrs.(type) {
	case *Text:
		a.Content = s
	case *Comment:
		a.Text = s
	case *Link:
		a.Text = s
	case *Watermark:
		a.Text = s
	case *Signature:
		a.Text = s
	default:
		return false
	}
	return true
}
