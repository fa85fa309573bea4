package layout

import (
	"fmt"
	"sort"

	"github.com/roach88/cardsmith/internal/shape"
)

// AlignMode selects the edge or center shapes are aligned to.
type AlignMode string

const (
	AlignLeft   AlignMode = "left"
	AlignCenter AlignMode = "center"
	AlignRight  AlignMode = "right"
	AlignTop    AlignMode = "top"
	AlignMiddle AlignMode = "middle"
	AlignBottom AlignMode = "bottom"
)

// ParseAlignMode converts a string to an AlignMode.
func ParseAlignMode(s string) (AlignMode, error) {
	switch m := AlignMode(s); m {
	case AlignLeft, AlignCenter, AlignRight, AlignTop, AlignMiddle, AlignBottom:
		return m, nil
	}
	return "", fmt.Errorf("unknown align mode %q", s)
}

// Axis selects the distribution direction.
type Axis string

const (
	Horizontal Axis = "horizontal"
	Vertical   Axis = "vertical"
)

// ParseAxis converts a string to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(s); a {
	case Horizontal, Vertical:
		return a, nil
	}
	return "", fmt.Errorf("unknown axis %q", s)
}

// Align moves shapes so they share an edge or center line taken from their
// combined selection bounds. Only X or Y changes. Output order matches input.
func Align(shapes []shape.Shape, mode AlignMode) []shape.Shape {
	out := shape.CloneAll(shapes)
	box, ok := shape.SelectionBounds(shapes)
	if !ok {
		return out
	}

	for i := range out {
		s := &out[i]
		switch mode {
		case AlignLeft:
			s.X = box.X
		case AlignCenter:
			s.X = box.X + (box.Width-s.Width)/2
		case AlignRight:
			s.X = box.Right - s.Width
		case AlignTop:
			s.Y = box.Y
		case AlignMiddle:
			s.Y = box.Y + (box.Height-s.Height)/2
		case AlignBottom:
			s.Y = box.Bottom - s.Height
		}
	}
	return out
}

// Distribute spaces shapes evenly along axis so the gaps between
// consecutive shapes (ordered by leading edge) are equal. The span from the
// first leading edge to the farthest trailing edge is preserved. Fewer than
// three shapes are returned unchanged. Output order matches input.
func Distribute(shapes []shape.Shape, axis Axis) []shape.Shape {
	out := shape.CloneAll(shapes)
	if len(out) < 3 {
		return out
	}

	lead := func(s shape.Shape) float64 {
		if axis == Vertical {
			return s.Y
		}
		return s.X
	}
	extent := func(s shape.Shape) float64 {
		if axis == Vertical {
			return s.Height
		}
		return s.Width
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lead(out[order[a]]) < lead(out[order[b]])
	})

	start := lead(out[order[0]])
	end := start
	var total float64
	for _, idx := range order {
		s := out[idx]
		total += extent(s)
		if far := lead(s) + extent(s); far > end {
			end = far
		}
	}
	gap := (end - start - total) / float64(len(out)-1)

	cursor := start
	for _, idx := range order {
		s := &out[idx]
		if axis == Vertical {
			s.Y = cursor
		} else {
			s.X = cursor
		}
		cursor += extent(*s) + gap
	}
	return out
}
