package editor

import "github.com/roach88/cardsmith/internal/shape"

// CopyShape places a copy of the shape with id in the clipboard, replacing
// its previous content.
func (e *Editor) CopyShape(id string) bool {
	return e.CopyShapes([]string{id})
}

// CopyShapes places copies of every known shape among ids in the clipboard.
// Returns false, leaving the clipboard untouched, when none is found.
func (e *Editor) CopyShapes(ids []string) bool {
	var copied []shape.Shape
	for _, id := range ids {
		if s, ok := e.side().Find(id); ok {
			copied = append(copied, shape.Clone(s))
		}
	}
	if len(copied) == 0 {
		return false
	}
	e.clipboard = copied
	return true
}

// CutShape copies the shape with id and then deletes it.
func (e *Editor) CutShape(id string) bool {
	if !e.CopyShape(id) {
		return false
	}
	return e.DeleteShape(id)
}

// PasteShape adds the clipboard content to the active side, offset from the
// copied position, and selects the last pasted shape. The clipboard shifts
// by the same offset so repeated pastes cascade. Returns the new ids; an
// empty clipboard is a no-op.
func (e *Editor) PasteShape() []string {
	if len(e.clipboard) == 0 {
		return nil
	}
	next := shape.CloneAll(e.side().Shapes)
	ids := make([]string, 0, len(e.clipboard))
	for i := range e.clipboard {
		e.clipboard[i].X += e.pasteOffset
		e.clipboard[i].Y += e.pasteOffset

		s := shape.Clone(e.clipboard[i])
		s.ID = e.ids.Generate()
		s.ZIndex = e.zclock.Next()
		next = append(next, s)
		ids = append(ids, s.ID)
	}
	e.commit("paste", next)
	e.selected = ids[len(ids)-1]
	return ids
}
