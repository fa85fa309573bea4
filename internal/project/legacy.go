package project

import (
	"encoding/json"
	"time"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/shape"
)

// legacyProject is the single-sided layout written by earlier releases.
type legacyProject struct {
	Version        string            `json:"version"`
	Shapes         []shape.Shape     `json:"shapes"`
	CanvasSettings document.Settings `json:"canvasSettings"`
	Timestamp      *time.Time        `json:"timestamp,omitempty"`
	LastModified   *time.Time        `json:"lastModified,omitempty"`
	AutoSaved      bool              `json:"autoSaved,omitempty"`
}

func isLegacy(keys map[string]json.RawMessage) bool {
	_, hasShapes := keys["shapes"]
	_, hasFront := keys["front"]
	return hasShapes && !hasFront
}

// decodeLegacy loads a single-sided file into the front side. The back side
// starts empty with default settings.
func decodeLegacy(data []byte) (Project, error) {
	if err := Validate(data, DefLegacy); err != nil {
		return Project{}, failure.Malformed("legacy project does not match schema", err)
	}
	legacy := legacyProject{CanvasSettings: document.DefaultSettings()}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return Project{}, failure.Malformed("decode legacy project", err)
	}

	p := Project{
		Version:     Version,
		CurrentSide: document.Front,
		Front: document.Side{
			Name:     "Front",
			Shapes:   legacy.Shapes,
			Settings: legacy.CanvasSettings,
		},
		Back:         document.NewSide("Back"),
		LastModified: legacy.LastModified,
		AutoSaved:    legacy.AutoSaved,
	}
	switch {
	case legacy.Timestamp != nil:
		p.Timestamp = *legacy.Timestamp
	case legacy.LastModified != nil:
		p.Timestamp = *legacy.LastModified
	}
	return finish(p)
}
