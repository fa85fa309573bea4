package document

import "fmt"

// Orientation of the card canvas.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// GridType selects how the editing grid is drawn.
type GridType string

const (
	GridLines GridType = "lines"
	GridDots  GridType = "dots"
)

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Canvas limits. A zero GridSize disables the grid; any other value must be
// at least MinGridSize.
const (
	MaxCanvasSize = 10000
	MinGridSize   = 1
)

// Settings is the per-side rendering configuration.
type Settings struct {
	Width             float64     `json:"width"`
	Height            float64     `json:"height"`
	Orientation       Orientation `json:"orientation"`
	BackgroundColor   string      `json:"backgroundColor"`
	BackgroundImage   string      `json:"backgroundImage,omitempty"`
	BackgroundPattern string      `json:"backgroundPattern,omitempty"` // none | dots | stripes
	BackgroundOpacity float64     `json:"backgroundOpacity"`
	GridSize          float64     `json:"gridSize"`
	GridColor         string      `json:"gridColor"`
	GridType          GridType    `json:"gridType"`
	ShowGrid          bool        `json:"showGrid"`
	SnapToGrid        bool        `json:"snapToGrid"`
	Zoom              float64     `json:"zoom"`
}

// DefaultSettings returns a landscape CR80 card with a 20px grid.
func DefaultSettings() Settings {
	w, h := PresetCR80.Pixels()
	return Settings{
		Width:             w,
		Height:            h,
		Orientation:       Landscape,
		BackgroundColor:   "#ffffff",
		BackgroundOpacity: 1,
		GridSize:          20,
		GridColor:         "#e5e7eb",
		GridType:          GridLines,
		ShowGrid:          true,
		SnapToGrid:        false,
		Zoom:              1,
	}
}

// ToggleOrientation flips the orientation and swaps width and height.
func (s Settings) ToggleOrientation() Settings {
	s.Width, s.Height = s.Height, s.Width
	if s.Orientation == Portrait {
		s.Orientation = Landscape
	} else {
		s.Orientation = Portrait
	}
	return s
}

// Validate checks the settings are renderable.
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %vx%v", s.Width, s.Height)
	}
	if s.Width > MaxCanvasSize || s.Height > MaxCanvasSize {
		return fmt.Errorf("canvas size must not exceed %d, got %vx%v", MaxCanvasSize, s.Width, s.Height)
	}
	if s.Orientation != Portrait && s.Orientation != Landscape {
		return fmt.Errorf("unknown orientation %q", s.Orientation)
	}
	if !validGridSize(s.GridSize) {
		return fmt.Errorf("grid size must be 0 or at least %d, got %v", MinGridSize, s.GridSize)
	}
	return nil
}

// SettingsPatch is a partial update of Settings. Width, Height and
// Orientation are absent: size changes go through presets or
// ToggleOrientation so the pair stays consistent.
type SettingsPatch struct {
	BackgroundColor   *string   `json:"backgroundColor,omitempty" yaml:"background_color,omitempty"`
	BackgroundPattern *string   `json:"backgroundPattern,omitempty" yaml:"background_pattern,omitempty"`
	BackgroundOpacity *float64  `json:"backgroundOpacity,omitempty" yaml:"background_opacity,omitempty"`
	GridSize          *float64  `json:"gridSize,omitempty" yaml:"grid_size,omitempty"`
	GridColor         *string   `json:"gridColor,omitempty" yaml:"grid_color,omitempty"`
	GridType          *GridType `json:"gridType,omitempty" yaml:"grid_type,omitempty"`
	ShowGrid          *bool     `json:"showGrid,omitempty" yaml:"show_grid,omitempty"`
	SnapToGrid        *bool     `json:"snapToGrid,omitempty" yaml:"snap_to_grid,omitempty"`
	Zoom              *float64  `json:"zoom,omitempty" yaml:"zoom,omitempty"`
}

// Apply returns s with the patch applied. Out-of-range values are clamped.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	if p.BackgroundPattern != nil {
		s.BackgroundPattern = *p.BackgroundPattern
	}
	if p.BackgroundOpacity != nil {
		s.BackgroundOpacity = clamp(*p.BackgroundOpacity, 0, 1)
	}
	if p.GridSize != nil && validGridSize(*p.GridSize) {
		s.GridSize = *p.GridSize
	}
	if p.GridColor != nil {
		s.GridColor = *p.GridColor
	}
	if p.GridType != nil {
		s.GridType = *p.GridType
	}
	if p.ShowGrid != nil {
		s.ShowGrid = *p.ShowGrid
	}
	if p.SnapToGrid != nil {
		s.SnapToGrid = *p.SnapToGrid
	}
	if p.Zoom != nil {
		s.Zoom = clamp(*p.Zoom, MinZoom, MaxZoom)
	}
	return s
}

func validGridSize(g float64) bool {
	return g == 0 || (g >= MinGridSize && g <= MaxCanvasSize)
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
