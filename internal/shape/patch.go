package shape

import "math"

// Patch is a partial update. Nil fields are left untouched.
// Props replaces the payload only when its kind matches the shape's kind.
type Patch struct {
	X        *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y        *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Width    *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height   *float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Visible  *bool    `json:"visible,omitempty" yaml:"visible,omitempty"`
	Locked   *bool    `json:"locked,omitempty" yaml:"locked,omitempty"`
	ZIndex   *int64   `json:"zIndex,omitempty" yaml:"z_index,omitempty"`
	Props    Props    `json:"-" yaml:"-"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Rotation == nil && p.Opacity == nil && p.Visible == nil &&
		p.Locked == nil && p.ZIndex == nil && p.Props == nil
}

// Apply returns a copy of s with the patch applied.
func (p Patch) Apply(s Shape) Shape {
	out := Clone(s)
	if p.X != nil {
		out.X = *p.X
	}
	if p.Y != nil {
		out.Y = *p.Y
	}
	if p.Width != nil {
		out.Width = clampMin(*p.Width, 0)
	}
	if p.Height != nil {
		out.Height = clampMin(*p.Height, 0)
	}
	if p.Rotation != nil {
		out.Rotation = NormalizeRotation(*p.Rotation)
	}
	if p.Opacity != nil {
		out.Opacity = clamp(*p.Opacity, 0, 1)
	}
	if p.Visible != nil {
		out.Visible = *p.Visible
	}
	if p.Locked != nil {
		out.Locked = *p.Locked
	}
	if p.ZIndex != nil {
		out.ZIndex = *p.ZIndex
	}
	if p.Props != nil && p.Props.Kind() == s.Kind() {
		out.Props = p.Props.clone()
	}
	return out
}

// NormalizeRotation maps degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampMin(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}
