package document

import (
	"fmt"

	"github.com/roach88/cardsmith/internal/shape"
)

// SideID names one face of the card.
type SideID string

const (
	Front SideID = "front"
	Back  SideID = "back"
)

// ParseSide converts a string to a SideID.
func ParseSide(s string) (SideID, error) {
	switch id := SideID(s); id {
	case Front, Back:
		return id, nil
	}
	return "", fmt.Errorf("unknown side %q: must be front or back", s)
}

// Side is one editable face: its shapes and canvas settings.
type Side struct {
	Name     string        `json:"name"`
	Shapes   []shape.Shape `json:"shapes"`
	Settings Settings      `json:"canvasSettings"`
}

// NewSide returns an empty side with default settings.
func NewSide(name string) Side {
	return Side{
		Name:     name,
		Shapes:   []shape.Shape{},
		Settings: DefaultSettings(),
	}
}

// Clone deep-copies the side.
func (s Side) Clone() Side {
	s.Shapes = shape.CloneAll(s.Shapes)
	return s
}

// Find returns the shape with id.
func (s Side) Find(id string) (shape.Shape, bool) {
	if i := shape.IndexOf(s.Shapes, id); i >= 0 {
		return s.Shapes[i], true
	}
	return shape.Shape{}, false
}

// Validate checks settings and id uniqueness.
func (s Side) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return fmt.Errorf("side %q: %w", s.Name, err)
	}
	seen := make(map[string]bool, len(s.Shapes))
	for i, sh := range s.Shapes {
		if sh.ID == "" {
			return fmt.Errorf("side %q: shape[%d] has no id", s.Name, i)
		}
		if seen[sh.ID] {
			return fmt.Errorf("side %q: duplicate shape id %q", s.Name, sh.ID)
		}
		seen[sh.ID] = true
	}
	return nil
}
