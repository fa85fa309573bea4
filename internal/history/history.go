// Package history implements linear undo/redo over shape-list snapshots.
//
// A History has three slots: past (oldest first), present, and future
// (next redo first). Every snapshot is a deep copy, so later edits to live
// shapes never alter recorded states.
package history

import "github.com/roach88/cardsmith/internal/shape"

// History is a linear undo/redo timeline. The zero value is not usable;
// create one with New.
type History struct {
	past    [][]shape.Shape
	present []shape.Shape
	future  [][]shape.Shape
	limit   int
}

// New creates a history whose present is a copy of initial.
// limit caps the number of undo steps kept; 0 means unbounded.
func New(initial []shape.Shape, limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{
		present: shape.CloneAll(initial),
		limit:   limit,
	}
}

// Record makes next the present state. The previous present moves to the
// past and the redo branch is discarded.
func (h *History) Record(next []shape.Shape) {
	h.past = append(h.past, h.present)
	if h.limit > 0 && len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.present = shape.CloneAll(next)
	h.future = nil
}

// Undo steps back one state and returns the new present.
// ok is false, and nothing changes, when there is nothing to undo.
func (h *History) Undo() (present []shape.Shape, ok bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past = h.past[:last]
	h.future = append([][]shape.Shape{h.present}, h.future...)
	h.present = prev
	return shape.CloneAll(h.present), true
}

// Redo steps forward one state and returns the new present.
// ok is false, and nothing changes, when there is nothing to redo.
func (h *History) Redo() (present []shape.Shape, ok bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return shape.CloneAll(h.present), true
}

// Present returns a copy of the current state.
func (h *History) Present() []shape.Shape {
	return shape.CloneAll(h.present)
}

// Reset discards all history and makes initial the present.
func (h *History) Reset(initial []shape.Shape) {
	h.past = nil
	h.future = nil
	h.present = shape.CloneAll(initial)
}

// CanUndo reports whether Undo would change state.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change state.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// UndoDepth returns the number of recorded past states.
func (h *History) UndoDepth() int { return len(h.past) }

// RedoDepth returns the number of states available to redo.
func (h *History) RedoDepth() int { return len(h.future) }
