package editor

import (
	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/shape"
)

// SwitchToSide makes side the active side. The selection is cleared because
// it names a shape on the side being left. Not recorded in history.
func (e *Editor) SwitchToSide(side document.SideID) bool {
	if side != document.Front && side != document.Back {
		return false
	}
	if side == e.current {
		return false
	}
	e.current = side
	e.selected = ""
	e.logger.Debug("side switched", "side", side)
	e.changed(side)
	return true
}

// UpdateCanvasSettings applies patch to the active side's settings.
func (e *Editor) UpdateCanvasSettings(patch document.SettingsPatch) bool {
	return e.setSettings(patch.Apply(e.side().Settings))
}

// SetBackgroundImage sets the active side's background image source.
func (e *Editor) SetBackgroundImage(src string) bool {
	s := e.side().Settings
	s.BackgroundImage = src
	return e.setSettings(s)
}

// RemoveBackgroundImage clears the active side's background image.
func (e *Editor) RemoveBackgroundImage() bool {
	return e.SetBackgroundImage("")
}

// ToggleOrientation swaps the active side's width and height and flips its
// orientation.
func (e *Editor) ToggleOrientation() bool {
	return e.setSettings(e.side().Settings.ToggleOrientation())
}

// SetCardSize resizes the active side to a preset, keeping its orientation.
func (e *Editor) SetCardSize(p document.Preset) bool {
	return e.setSettings(p.Apply(e.side().Settings))
}

// setSettings replaces the active side's settings. Settings live outside the
// shape history, so nothing is recorded.
func (e *Editor) setSettings(next document.Settings) bool {
	s := e.side()
	if s.Settings == next {
		return false
	}
	s.Settings = next
	e.changed(e.current)
	return true
}
