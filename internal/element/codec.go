package element

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when decoding an element whose "type" is not a known kind.
var ErrUnknownKind = errors.New("unknown element type")

// common is the JSON shape of the attributes shared by every kind.
type common struct {
	Type     Kind    `json:"type"`
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	ZIndex   int     `json:"zIndex"`
	Opacity  float64 `json:"opacity"`
	Rotation float64 `json:"rotation"`
	Locked   bool    `json:"locked"`
	Visible  bool    `json:"visible"`
	GroupID  string  `json:"groupId,omitempty"`
}

// MarshalJSON writes the flat form: common attributes and kind attributes in one object.
func (e Element) MarshalJSON() ([]byte, error) {
	if e.Attrs == nil {
		return nil, fmt.Errorf("element %q: %w", e.ID, ErrUnknownKind)
	}
	head, err := json.Marshal(common{
		Type:     e.Attrs.Kind(),
		ID:       e.ID,
		X:        e.X,
		Y:        e.Y,
		Width:    e.Width,
		Height:   e.Height,
		ZIndex:   e.ZIndex,
		Opacity:  e.Opacity,
		Rotation: e.Rotation,
		Locked:   e.Locked,
		Visible:  !e.Hidden,
		GroupID:  e.GroupID,
	})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(e.Attrs)
	if err != nil {
		return nil, fmt.Errorf("element %q attributes: %w", e.ID, err)
	}
	if bytes.Equal(body, []byte("{}")) {
		return head, nil
	}
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

// UnmarshalJSON reads the flat form. Attributes absent from the input keep the factory
// defaults; an absent zIndex decodes as AutoZ.
func (e *Element) UnmarshalJSON(data []byte) error {
	c := common{ZIndex: AutoZ, Opacity: 1, Visible: true}
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	attrs := defaultAttrs(c.Type)
	if attrs == nil {
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Type)
	}
	if err := json.Unmarshal(data, attrs); err != nil {
		return fmt.Errorf("%s attributes: %w", c.Type, err)
	}
	*e = Element{
		ID:       c.ID,
		X:        c.X,
		Y:        c.Y,
		Width:    c.Width,
		Height:   c.Height,
		ZIndex:   c.ZIndex,
		Opacity:  c.Opacity,
		Rotation: c.Rotation,
		Locked:   c.Locked,
		Hidden:   !c.Visible,
		GroupID:  c.GroupID,
		Attrs:    attrs,
	}
	return nil
}
