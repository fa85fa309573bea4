package editor

import (
	"time"

	"github.com/roach88/cardsmith/internal/project"
)

// Snapshot returns the live document as a project stamped with now.
func (e *Editor) Snapshot(now time.Time) project.Project {
	return project.New(e.doc, e.current, now)
}

// SaveProject encodes both sides and the active side as project JSON.
// LoadProject accepts the output unchanged.
func (e *Editor) SaveProject(now time.Time) ([]byte, error) {
	return project.Encode(e.Snapshot(now))
}

// LoadProject replaces the document with decoded project JSON. On error the
// editor is left untouched.
func (e *Editor) LoadProject(data []byte) error {
	p, err := project.Decode(data)
	if err != nil {
		e.logger.Warn("project rejected", "error", err)
		return err
	}
	e.Load(p.Document(), p.CurrentSide)
	return nil
}
