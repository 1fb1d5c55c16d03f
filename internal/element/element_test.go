package element

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allKinds() []*Element {
	return []*Element{
		NewText(100, 100, 300, 100, "<p>hello</p>"),
		NewImage(10, 20, "data:image/png;base64,AAAA", 0, 0),
		NewShape(5, 5, ShapeStar, 80, 80),
		NewTable(40, 40, 2, 4),
		NewWatermark("DRAFT", 816, 1056, WatermarkOptions{}),
		NewSignature(100, 600),
		NewComment(700, 100, "check this", "Ada", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		NewLink(100, 100, "docs", "https://example.com"),
	}
}

func TestFactories_Defaults(t *testing.T) {
	for _, e := range allKinds() {
		assert.Equal(t, AutoZ, e.ZIndex, e.Kind())
		assert.False(t, e.Hidden, e.Kind())
		assert.Empty(t, e.ID, "factories leave identity to the document")
		assert.Positive(t, e.Width, e.Kind())
		assert.Positive(t, e.Height, e.Kind())
	}

	txt := NewText(0, 0, 0, 0, "")
	assert.Equal(t, float64(DefaultTextWidth), txt.Width)
	assert.Equal(t, DefaultTextBody, txt.TextContent())
	assert.Equal(t, 1.0, txt.Opacity)

	wm := NewWatermark("", 816, 1056, WatermarkOptions{})
	assert.True(t, wm.Locked)
	assert.Equal(t, -45.0, wm.Rotation)
	assert.Equal(t, 0.3, wm.Opacity)
	assert.Equal(t, "CONFIDENTIAL", wm.TextContent())
	assert.Equal(t, Rect{Width: 816, Height: 1056}, wm.Bounds())
}

func TestNewTable_HeaderRow(t *testing.T) {
	e := NewTable(0, 0, 2, 3)
	tbl := e.Attrs.(*Table)
	require.Len(t, tbl.Cells, 2)
	require.Len(t, tbl.Cells[0], 3)
	assert.Equal(t, "bold", tbl.Cells[0][0].FontWeight)
	assert.Equal(t, "normal", tbl.Cells[1][0].FontWeight)
	assert.Equal(t, 360.0, e.Width)
	assert.Equal(t, 72.0, e.Height)
	assert.Nil(t, tbl.Cell(2, 0))
}

func TestClone_NoAliasing(t *testing.T) {
	orig := NewTable(0, 0, 2, 2)
	c := orig.Clone()
	c.Attrs.(*Table).Cells[0][0].Content = "changed"
	c.X = 99
	assert.Empty(t, orig.Attrs.(*Table).Cells[0][0].Content)
	assert.Zero(t, orig.X)

	txt := NewText(0, 0, 0, 0, "<p>a</p>")
	tc := txt.Clone()
	tc.SetTextContent("<p>b</p>")
	assert.Equal(t, "<p>a</p>", txt.TextContent())
}

func TestJSON_RoundTripEveryKind(t *testing.T) {
	for i, e := range allKinds() {
		e.ID = NewSequence("el").Next()
		e.ZIndex = i
		e.GroupID = "group-1"
		e.Hidden = i%2 == 0
		b, err := json.Marshal(e)
		require.NoError(t, err)

		var back Element
		require.NoError(t, json.Unmarshal(b, &back), string(b))
		assert.Equal(t, e, &back, string(b))
	}
}

func TestJSON_FlatShape(t *testing.T) {
	e := NewLink(1, 2, "x", "https://x")
	e.ID = "el-7"
	b, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "link", m["type"])
	assert.Equal(t, "el-7", m["id"])
	assert.Equal(t, "https://x", m["url"])
	assert.Equal(t, true, m["visible"])
	_, hasGroup := m["groupId"]
	assert.False(t, hasGroup)
}

func TestJSON_PartialInputTakesDefaults(t *testing.T) {
	var e Element
	require.NoError(t, json.Unmarshal([]byte(`{"type":"shape","x":5}`), &e))
	assert.Equal(t, KindShape, e.Kind())
	assert.Equal(t, AutoZ, e.ZIndex)
	assert.Equal(t, 1.0, e.Opacity)
	assert.True(t, e.Visible())
	assert.Equal(t, "#4a90d9", e.Attrs.(*Shape).Fill)
}

func TestJSON_UnknownType(t *testing.T) {
	var e Element
	err := json.Unmarshal([]byte(`{"type":"pageNumber","id":"x"}`), &e)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRect_Intersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, a.Intersects(Rect{X: 5, Y: 5, Width: 10, Height: 10}))
	assert.False(t, a.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}), "touching edges")
	assert.False(t, a.Intersects(Rect{X: 20, Y: 20, Width: 5, Height: 5}))
	assert.Equal(t, Rect{X: 2, Y: 3, Width: 8, Height: 4}, RectFromPoints(Point{10, 3}, Point{2, 7}))
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 20.0, Snap(16, 10))
	assert.Equal(t, 10.0, Snap(14.9, 10))
	assert.Equal(t, 13.3, Snap(13.3, 0))
}

func TestSequence_Observe(t *testing.T) {
	s := NewSequence("el")
	assert.Equal(t, "el-1", s.Next())
	s.Observe("el-41")
	s.Observe("group-99")
	s.Observe("el-abc")
	assert.Equal(t, "el-42", s.Next())
	s.Observe("el-3")
	assert.Equal(t, "el-43", s.Next())
}

func TestPatch_Apply(t *testing.T) {
	e := NewComment(0, 0, "old", "", time.Now())
	p := Move(10, 20)
	p.Content = ptr("new")
	opacity := 4.0
	p.Opacity = &opacity
	p.Attrs = &Shape{} // wrong kind, ignored
	p.Apply(e)

	assert.Equal(t, 10.0, e.X)
	assert.Equal(t, 20.0, e.Y)
	assert.Equal(t, "new", e.TextContent())
	assert.Equal(t, 1.0, e.Opacity)
	assert.Equal(t, KindComment, e.Kind())
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, SetLocked(true).IsEmpty())
}

type kindCounter map[Kind]int

func (k kindCounter) VisitText(*Element, *Text)           { k[KindText]++ }
func (k kindCounter) VisitImage(*Element, *Image)         { k[KindImage]++ }
func (k kindCounter) VisitShape(*Element, *Shape)         { k[KindShape]++ }
func (k kindCounter) VisitTable(*Element, *Table)         { k[KindTable]++ }
func (k kindCounter) VisitWatermark(*Element, *Watermark) { k[KindWatermark]++ }
func (k kindCounter) VisitSignature(*Element, *Signature) { k[KindSignature]++ }
func (k kindCounter) VisitComment(*Element, *Comment)     { k[KindComment]++ }
func (k kindCounter) VisitLink(*Element, *Link)           { k[KindLink]++ }

func TestAccept_DispatchesByKind(t *testing.T) {
	counts := kindCounter{}
	for _, e := range allKinds() {
		e.Accept(counts)
	}
	for _, k := range Kinds {
		assert.Equal(t, 1, counts[k], k)
	}
}

func ptr[T any](v T) *T { return &v }
