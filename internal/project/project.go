package project

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/shape"
)

// Version is written into every encoded project.
const Version = "1.0"

// Project is the serialised form of a two-sided document.
type Project struct {
	Version      string          `json:"version"`
	Timestamp    time.Time       `json:"timestamp"`
	CurrentSide  document.SideID `json:"currentSide"`
	Front        document.Side   `json:"front"`
	Back         document.Side   `json:"back"`
	LastModified *time.Time      `json:"lastModified,omitempty"`
	AutoSaved    bool            `json:"autoSaved,omitempty"`
}

// New builds a project from a document snapshot taken at now.
func New(doc document.Document, current document.SideID, now time.Time) Project {
	doc = doc.Clone()
	if current != document.Back {
		current = document.Front
	}
	return Project{
		Version:     Version,
		Timestamp:   now.UTC(),
		CurrentSide: current,
		Front:       doc.Front,
		Back:        doc.Back,
	}
}

// Document returns a copy of the project's sides as a document.
func (p Project) Document() document.Document {
	return document.Document{Front: p.Front.Clone(), Back: p.Back.Clone()}
}

// Encode writes p as indented JSON.
func Encode(p Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, failure.Malformed("encode project", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a project or a legacy single-sided file.
//
// Validation runs in order: JSON syntax, layout detection, CUE schema,
// typed decode, then document invariants (unique shape ids, renderable
// settings). Text is normalised to NFC.
func Decode(data []byte) (Project, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return Project{}, failure.Malformed("project is not a JSON object", err)
	}

	if isLegacy(keys) {
		return decodeLegacy(data)
	}
	if err := Validate(data, DefProject); err != nil {
		return Project{}, failure.Malformed("project does not match schema", err)
	}

	p := Project{
		Front: document.NewSide("Front"),
		Back:  document.NewSide("Back"),
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return Project{}, failure.Malformed("decode project", err)
	}
	return finish(p)
}

// finish normalises a decoded project and checks document invariants.
func finish(p Project) (Project, error) {
	if p.CurrentSide != document.Back {
		p.CurrentSide = document.Front
	}
	p.Front = normalizeSide(p.Front)
	p.Back = normalizeSide(p.Back)
	if err := p.Document().Validate(); err != nil {
		return Project{}, failure.Malformed("invalid project", err)
	}
	return p, nil
}

func normalizeSide(s document.Side) document.Side {
	s.Name = NormalizeText(s.Name)
	if s.Shapes == nil {
		s.Shapes = []shape.Shape{}
	}
	for i := range s.Shapes {
		s.Shapes[i] = NormalizeShape(s.Shapes[i])
	}
	return s
}
