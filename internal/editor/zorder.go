package editor

import (
	"slices"

	"github.com/roach88/cardsmith/internal/shape"
)

// BringToFront raises the shape with id above every other shape.
func (e *Editor) BringToFront(id string) bool {
	return e.restack("bring_to_front", id, func(order []string, pos int) []string {
		return moveTo(order, pos, len(order)-1)
	})
}

// SendToBack lowers the shape with id below every other shape.
func (e *Editor) SendToBack(id string) bool {
	return e.restack("send_to_back", id, func(order []string, pos int) []string {
		return moveTo(order, pos, 0)
	})
}

// BringForward swaps the shape with id with the shape painted just above it.
func (e *Editor) BringForward(id string) bool {
	return e.restack("bring_forward", id, func(order []string, pos int) []string {
		return moveTo(order, pos, min(pos+1, len(order)-1))
	})
}

// SendBackward swaps the shape with id with the shape painted just below it.
func (e *Editor) SendBackward(id string) bool {
	return e.restack("send_backward", id, func(order []string, pos int) []string {
		return moveTo(order, pos, max(pos-1, 0))
	})
}

// restack reorders the paint order of the active side and renumbers z-index
// values 1..n. Insertion order of the shape list is untouched.
func (e *Editor) restack(op, id string, fn func(order []string, pos int) []string) bool {
	shapes := e.side().Shapes
	if shape.IndexOf(shapes, id) < 0 {
		return false
	}
	painted := shape.PaintOrder(shapes)
	order := make([]string, len(painted))
	pos := 0
	for i, s := range painted {
		order[i] = s.ID
		if s.ID == id {
			pos = i
		}
	}
	reordered := fn(order, pos)
	if slices.Equal(reordered, order) {
		return false
	}

	next := shape.CloneAll(shapes)
	for z, sid := range reordered {
		next[shape.IndexOf(next, sid)].ZIndex = int64(z + 1)
	}
	e.zclock.Observe(int64(len(reordered)))
	e.commit(op, next)
	return true
}

func moveTo(order []string, from, to int) []string {
	if from == to {
		return order
	}
	id := order[from]
	out := make([]string, 0, len(order))
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)
	out = append(out[:to], append([]string{id}, out[to:]...)...)
	return out
}
