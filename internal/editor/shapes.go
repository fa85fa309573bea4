package editor

import (
	"reflect"
	"slices"

	"github.com/roach88/cardsmith/internal/layout"
	"github.com/roach88/cardsmith/internal/shape"
)

// AddShape appends s to the active side with a fresh id and a z-index above
// every existing shape, selects it and records history. Returns the new id,
// or "" when s has no payload.
func (e *Editor) AddShape(s shape.Shape) string {
	if s.Props == nil {
		return ""
	}
	s = shape.Clone(s)
	s.ID = e.ids.Generate()
	s.ZIndex = e.zclock.Next()

	next := append(shape.CloneAll(e.side().Shapes), s)
	e.commit("add", next)
	e.selected = s.ID
	return s.ID
}

// AddDefault adds the default shape of kind at (x, y).
func (e *Editor) AddDefault(kind shape.Kind, x, y float64) (string, error) {
	s, err := shape.Default(kind, x, y)
	if err != nil {
		return "", err
	}
	return e.AddShape(s), nil
}

// UpdateShape applies patch to the shape with id. Returns false when the id
// is unknown or the patch changes nothing. Locked shapes still accept
// updates so they can be unlocked.
func (e *Editor) UpdateShape(id string, patch shape.Patch) bool {
	return e.mutate("update", id, func(s shape.Shape) shape.Shape {
		if patch.ZIndex != nil {
			e.zclock.Observe(*patch.ZIndex)
		}
		return patch.Apply(s)
	})
}

// MoveShape sets the position of the shape with id, snapping each axis to
// the grid when snapping is on. Locked shapes do not move.
func (e *Editor) MoveShape(id string, x, y float64) bool {
	settings := e.side().Settings
	if settings.SnapToGrid {
		x = layout.SnapToGrid(x, settings.GridSize)
		y = layout.SnapToGrid(y, settings.GridSize)
	}
	return e.mutate("move", id, func(s shape.Shape) shape.Shape {
		if s.Locked {
			return s
		}
		s.X, s.Y = x, y
		return s
	})
}

// MoveBy translates the shape with id by (dx, dy).
func (e *Editor) MoveBy(id string, dx, dy float64) bool {
	s, ok := e.side().Find(id)
	if !ok {
		return false
	}
	return e.MoveShape(id, s.X+dx, s.Y+dy)
}

// ResizeShape sets the size of the shape with id, snapping each dimension
// to the grid when snapping is on. A dimension that snaps to zero becomes
// one grid cell. Locked shapes keep their size.
func (e *Editor) ResizeShape(id string, width, height float64) bool {
	settings := e.side().Settings
	if settings.SnapToGrid && settings.GridSize > 0 {
		width = snapSize(width, settings.GridSize)
		height = snapSize(height, settings.GridSize)
	}
	return e.mutate("resize", id, func(s shape.Shape) shape.Shape {
		if s.Locked {
			return s
		}
		s.Width = max(width, 0)
		s.Height = max(height, 0)
		return s
	})
}

func snapSize(v, grid float64) float64 {
	if snapped := layout.SnapToGrid(v, grid); snapped > 0 {
		return snapped
	}
	return grid
}

// RotateShape sets the rotation of the shape with id, normalised to
// [0, 360).
func (e *Editor) RotateShape(id string, degrees float64) bool {
	return e.mutate("rotate", id, func(s shape.Shape) shape.Shape {
		if s.Locked {
			return s
		}
		s.Rotation = shape.NormalizeRotation(degrees)
		return s
	})
}

// DeleteShape removes the shape with id, clearing the selection if it was
// selected.
func (e *Editor) DeleteShape(id string) bool {
	shapes := e.side().Shapes
	i := shape.IndexOf(shapes, id)
	if i < 0 {
		return false
	}
	next := make([]shape.Shape, 0, len(shapes)-1)
	next = append(next, shape.CloneAll(shapes[:i])...)
	next = append(next, shape.CloneAll(shapes[i+1:])...)
	e.commit("delete", next)
	if e.selected == id {
		e.selected = ""
	}
	return true
}

// DuplicateShape appends a copy of the shape with id, offset so it is
// visible, and selects it.
func (e *Editor) DuplicateShape(id string) (string, bool) {
	src, ok := e.side().Find(id)
	if !ok {
		return "", false
	}
	dup := shape.Clone(src)
	dup.X += e.duplicateOffset
	dup.Y += e.duplicateOffset
	return e.AddShape(dup), true
}

// ClearCanvas removes every shape from the active side and clears the
// selection. Returns false when the side was already empty.
func (e *Editor) ClearCanvas() bool {
	e.selected = ""
	if len(e.side().Shapes) == 0 {
		return false
	}
	e.commit("clear", []shape.Shape{})
	return true
}

// Align aligns the unlocked shapes among ids to their combined bounds.
// Unknown ids are skipped. One history entry is recorded.
func (e *Editor) Align(ids []string, mode layout.AlignMode) bool {
	return e.arrange("align", ids, func(group []shape.Shape) []shape.Shape {
		return layout.Align(group, mode)
	})
}

// Distribute evenly spaces the unlocked shapes among ids along axis.
func (e *Editor) Distribute(ids []string, axis layout.Axis) bool {
	return e.arrange("distribute", ids, func(group []shape.Shape) []shape.Shape {
		return layout.Distribute(group, axis)
	})
}

// mutate applies fn to a copy of the shape with id and commits when the
// result differs.
func (e *Editor) mutate(op, id string, fn func(shape.Shape) shape.Shape) bool {
	shapes := e.side().Shapes
	i := shape.IndexOf(shapes, id)
	if i < 0 {
		e.logger.Debug("unknown shape id", "op", op, "id", id)
		return false
	}
	updated := fn(shape.Clone(shapes[i]))
	if reflect.DeepEqual(updated, shapes[i]) {
		return false
	}
	next := shape.CloneAll(shapes)
	next[i] = updated
	e.commit(op, next)
	return true
}

// arrange runs fn over the unlocked shapes named by ids and writes the
// results back in place.
func (e *Editor) arrange(op string, ids []string, fn func([]shape.Shape) []shape.Shape) bool {
	next := shape.CloneAll(e.side().Shapes)
	var (
		group []shape.Shape
		index []int
	)
	for _, id := range ids {
		i := shape.IndexOf(next, id)
		if i < 0 || next[i].Locked || slices.Contains(index, i) {
			continue
		}
		group = append(group, next[i])
		index = append(index, i)
	}
	if len(group) == 0 {
		return false
	}
	out := fn(group)
	dirty := false
	for k, i := range index {
		if !reflect.DeepEqual(next[i], out[k]) {
			next[i] = out[k]
			dirty = true
		}
	}
	if !dirty {
		return false
	}
	e.commit(op, next)
	return true
}
