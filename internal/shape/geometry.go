package shape

import "sort"

// Box is an axis-aligned bounding box with precomputed far edges.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Right  float64
	Bottom float64
}

// Bounds returns the unrotated bounding box of s. Callers that need
// rotation-aware hit testing must transform the point first.
func Bounds(s Shape) Box {
	return Box{
		X:      s.X,
		Y:      s.Y,
		Width:  s.Width,
		Height: s.Height,
		Right:  s.X + s.Width,
		Bottom: s.Y + s.Height,
	}
}

// Contains reports whether p lies inside the unrotated bounds of s,
// edges included.
func Contains(p Point, s Shape) bool {
	b := Bounds(s)
	return p.X >= b.X && p.X <= b.Right && p.Y >= b.Y && p.Y <= b.Bottom
}

// SelectionBounds returns the smallest box enclosing every shape.
// ok is false when shapes is empty.
func SelectionBounds(shapes []Shape) (box Box, ok bool) {
	if len(shapes) == 0 {
		return Box{}, false
	}

	first := Bounds(shapes[0])
	minX, minY, maxX, maxY := first.X, first.Y, first.Right, first.Bottom
	for _, s := range shapes[1:] {
		b := Bounds(s)
		if b.X < minX {
			minX = b.X
		}
		if b.Y < minY {
			minY = b.Y
		}
		if b.Right > maxX {
			maxX = b.Right
		}
		if b.Bottom > maxY {
			maxY = b.Bottom
		}
	}

	return Box{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
		Right:  maxX,
		Bottom: maxY,
	}, true
}

// HitTest returns the id of the topmost visible shape containing p.
func HitTest(shapes []Shape, p Point) (string, bool) {
	ordered := PaintOrder(shapes)
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Visible && Contains(p, ordered[i]) {
			return ordered[i].ID, true
		}
	}
	return "", false
}

// PaintOrder returns shapes sorted by ZIndex ascending. The sort is stable,
// so equal keys keep insertion order. The input is not modified.
func PaintOrder(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	copy(out, shapes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// MaxZIndex returns the highest ZIndex in shapes, or 0 when empty.
func MaxZIndex(shapes []Shape) int64 {
	var max int64
	for i, s := range shapes {
		if i == 0 || s.ZIndex > max {
			max = s.ZIndex
		}
	}
	return max
}

// MinZIndex returns the lowest ZIndex in shapes, or 0 when empty.
func MinZIndex(shapes []Shape) int64 {
	var min int64
	for i, s := range shapes {
		if i == 0 || s.ZIndex < min {
			min = s.ZIndex
		}
	}
	return min
}
