package element

// Patch is a partial attribute set. Nil fields are left untouched when applied.
type Patch struct {
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
	ZIndex   *int
	Opacity  *float64
	Rotation *float64
	Locked   *bool
	Visible  *bool
	// Content replaces the textual body of kinds that have one.
	Content *string
	// Attrs replaces the kind payload; it is ignored when its kind differs from the element's.
	Attrs Attrs
}

// Move returns a patch setting the position.
func Move(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Resize returns a patch setting position and size together.
func Resize(r Rect) Patch {
	return Patch{X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height}
}

// SetContent returns a patch replacing the textual body.
func SetContent(s string) Patch {
	return Patch{Content: &s}
}

// SetLocked returns a patch toggling the lock flag.
func SetLocked(v bool) Patch {
	return Patch{Locked: &v}
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.ZIndex == nil && p.Opacity == nil && p.Rotation == nil &&
		p.Locked == nil && p.Visible == nil && p.Content == nil && p.Attrs == nil
}

// Apply merges p onto e. Opacity is clamped to [0,1].
func (p Patch) Apply(e *Element) {
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Width != nil {
		e.Width = *p.Width
	}
	if p.Height != nil {
		e.Height = *p.Height
	}
	if p.ZIndex != nil {
		e.ZIndex = *p.ZIndex
	}
	if p.Opacity != nil {
		e.Opacity = ClampOpacity(*p.Opacity)
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.Locked != nil {
		e.Locked = *p.Locked
	}
	if p.Visible != nil {
		e.Hidden = !*p.Visible
	}
	if p.Attrs != nil && p.Attrs.Kind() == e.Kind() {
		e.Attrs = p.Attrs.clone()
	}
	if p.Content != nil {
		e.SetTextContent(*p.Content)
	}
}

// ClampOpacity limits v to [0,1].
func ClampOpacity(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
