package document

import (
	"fmt"
	"math"
)

// PixelsPerMM is the document resolution: 10px per millimetre (254 dpi).
const PixelsPerMM = 10

// Preset is a standard card size, stored landscape.
type Preset struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// ISO/IEC 7810 and common badge sizes.
var (
	PresetCR80  = Preset{Name: "cr80", WidthMM: 85.6, HeightMM: 54}
	PresetCR79  = Preset{Name: "cr79", WidthMM: 83.9, HeightMM: 52.1}
	PresetCR100 = Preset{Name: "cr100", WidthMM: 98.5, HeightMM: 67}
)

// Presets lists the supported card sizes.
var Presets = []Preset{PresetCR80, PresetCR79, PresetCR100}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown card size %q", name)
}

// Pixels returns the landscape pixel dimensions.
func (p Preset) Pixels() (width, height float64) {
	return math.Round(p.WidthMM * PixelsPerMM), math.Round(p.HeightMM * PixelsPerMM)
}

// Apply resizes s to the preset, keeping its current orientation.
func (p Preset) Apply(s Settings) Settings {
	w, h := p.Pixels()
	if s.Orientation == Portrait {
		w, h = h, w
	}
	s.Width, s.Height = w, h
	return s
}

// MM converts document pixels to millimetres.
func MM(px float64) float64 {
	return px / PixelsPerMM
}
