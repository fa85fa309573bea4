package layout

import "math"

// SnapToGrid rounds value to the nearest multiple of gridSize.
// A non-positive gridSize disables snapping and returns value unchanged.
func SnapToGrid(value, gridSize float64) float64 {
	if gridSize <= 0 {
		return value
	}
	return math.Round(value/gridSize) * gridSize
}

// Line is a grid line segment from (X1, Y1) to (X2, Y2).
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Grid holds the vertical and horizontal lines covering a canvas.
type Grid struct {
	Vertical   []Line
	Horizontal []Line
}

// GridLines generates vertical lines at x = 0, g, 2g, ... <= width and
// horizontal lines at y = 0, g, 2g, ... <= height. Positions are computed
// as i*g rather than accumulated so large canvases do not drift.
func GridLines(width, height, gridSize float64) Grid {
	var g Grid
	if gridSize <= 0 || width < 0 || height < 0 {
		return g
	}
	for i := 0; ; i++ {
		x := float64(i) * gridSize
		if x > width {
			break
		}
		g.Vertical = append(g.Vertical, Line{X1: x, Y1: 0, X2: x, Y2: height})
	}
	for i := 0; ; i++ {
		y := float64(i) * gridSize
		if y > height {
			break
		}
		g.Horizontal = append(g.Horizontal, Line{X1: 0, Y1: y, X2: width, Y2: y})
	}
	return g
}
