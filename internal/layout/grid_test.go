package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		grid  float64
		want  float64
	}{
		{"already aligned", 140, 20, 140},
		{"rounds down", 143, 20, 140},
		{"rounds up", 151, 20, 160},
		{"half rounds away from zero", 150, 20, 160},
		{"negative", -13, 10, -10},
		{"zero grid disables", 143, 0, 143},
		{"negative grid disables", 143, -5, 143},
		{"fractional grid", 1.26, 0.25, 1.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SnapToGrid(tt.value, tt.grid), 1e-9)
		})
	}
}

func TestSnapToGrid_Idempotent(t *testing.T) {
	grids := []float64{1, 5, 10, 20, 7.5}
	for _, g := range grids {
		for v := -100.0; v <= 100; v += 3.3 {
			once := SnapToGrid(v, g)
			assert.Equal(t, once, SnapToGrid(once, g), "v=%v g=%v", v, g)
		}
	}
}

func TestGridLines(t *testing.T) {
	g := GridLines(100, 50, 20)

	require.Len(t, g.Vertical, 6)   // 0,20,40,60,80,100
	require.Len(t, g.Horizontal, 3) // 0,20,40

	assert.Equal(t, Line{X1: 0, Y1: 0, X2: 0, Y2: 50}, g.Vertical[0])
	assert.Equal(t, Line{X1: 100, Y1: 0, X2: 100, Y2: 50}, g.Vertical[5])
	assert.Equal(t, Line{X1: 0, Y1: 40, X2: 100, Y2: 40}, g.Horizontal[2])
}

func TestGridLines_NonDividingSize(t *testing.T) {
	g := GridLines(95, 95, 20)
	assert.Len(t, g.Vertical, 5) // 0..80
	assert.Equal(t, 80.0, g.Vertical[4].X1)
}

func TestGridLines_InvalidSize(t *testing.T) {
	assert.Empty(t, GridLines(100, 100, 0).Vertical)
	assert.Empty(t, GridLines(100, 100, -1).Horizontal)
}
