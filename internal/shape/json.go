package shape

import (
	"encoding/json"
	"fmt"
)

// wireShape is the JSON envelope of a Shape. Visible and Opacity are
// pointers so documents that omit them decode to visible, fully opaque
// shapes.
type wireShape struct {
	ID       string          `json:"id"`
	Type     Kind            `json:"type"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Rotation float64         `json:"rotation"`
	Opacity  *float64        `json:"opacity,omitempty"`
	Visible  *bool           `json:"visible,omitempty"`
	Locked   bool            `json:"locked"`
	ZIndex   int64           `json:"zIndex"`
	Props    json.RawMessage `json:"props,omitempty"`
}

// MarshalJSON encodes the shape with its payload under "props" and the
// kind under "type".
func (s Shape) MarshalJSON() ([]byte, error) {
	if s.Props == nil {
		return nil, fmt.Errorf("shape %q: missing props", s.ID)
	}
	props, err := json.Marshal(s.Props)
	if err != nil {
		return nil, fmt.Errorf("shape %q: marshal props: %w", s.ID, err)
	}
	opacity := s.Opacity
	visible := s.Visible
	return json.Marshal(wireShape{
		ID:       s.ID,
		Type:     s.Kind(),
		X:        s.X,
		Y:        s.Y,
		Width:    s.Width,
		Height:   s.Height,
		Rotation: s.Rotation,
		Opacity:  &opacity,
		Visible:  &visible,
		Locked:   s.Locked,
		ZIndex:   s.ZIndex,
		Props:    props,
	})
}

// UnmarshalJSON decodes a shape, selecting the payload type from "type".
// Unknown kinds are an error.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var w wireShape
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	props, err := newProps(w.Type)
	if err != nil {
		return err
	}
	if len(w.Props) > 0 && string(w.Props) != "null" {
		if err := json.Unmarshal(w.Props, props); err != nil {
			return fmt.Errorf("shape %q: decode %s props: %w", w.ID, w.Type, err)
		}
	}

	*s = Shape{
		ID:       w.ID,
		X:        w.X,
		Y:        w.Y,
		Width:    w.Width,
		Height:   w.Height,
		Rotation: w.Rotation,
		Opacity:  1,
		Visible:  true,
		Locked:   w.Locked,
		ZIndex:   w.ZIndex,
		Props:    props,
	}
	if w.Opacity != nil {
		s.Opacity = *w.Opacity
	}
	if w.Visible != nil {
		s.Visible = *w.Visible
	}
	return nil
}

// DecodeProps decodes a JSON payload for kind.
func DecodeProps(kind Kind, data []byte) (Props, error) {
	props, err := newProps(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, props); err != nil {
		return nil, fmt.Errorf("decode %s props: %w", kind, err)
	}
	return props, nil
}
