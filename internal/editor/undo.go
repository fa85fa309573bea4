package editor

import "github.com/roach88/cardsmith/internal/shape"

// Undo restores the active side's previous shape list.
func (e *Editor) Undo() bool {
	present, ok := e.history[e.current].Undo()
	if !ok {
		return false
	}
	e.restore(present)
	return true
}

// Redo reapplies the active side's next shape list.
func (e *Editor) Redo() bool {
	present, ok := e.history[e.current].Redo()
	if !ok {
		return false
	}
	e.restore(present)
	return true
}

func (e *Editor) restore(present []shape.Shape) {
	e.side().Shapes = present
	if e.selected != "" && shape.IndexOf(present, e.selected) < 0 {
		e.selected = ""
	}
	e.changed(e.current)
}
