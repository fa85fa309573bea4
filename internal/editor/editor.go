package editor

import (
	"io"
	"log/slog"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/history"
	"github.com/roach88/cardsmith/internal/shape"
)

// Editor owns the live state of one editing session.
type Editor struct {
	doc      document.Document
	current  document.SideID
	history  map[document.SideID]*history.History
	selected string

	clipboard []shape.Shape

	ids    IDGenerator
	zclock *ZClock
	logger *slog.Logger
	hooks  []ChangeHook

	pasteOffset     float64
	duplicateOffset float64
	historyLimit    int

	// revision increments on every applied change; autosave and render
	// consumers compare it to skip redundant work.
	revision uint64
}

// New creates an editor on an empty two-sided document with the front side
// active.
//
// Parameters:
//   - ids: shape id generator (UUIDv7Generator in production)
//   - opts: optional configuration
func New(ids IDGenerator, opts ...EditorOption) *Editor {
	e := &Editor{
		doc:             document.New(),
		current:         document.Front,
		ids:             ids,
		pasteOffset:     DefaultPasteOffset,
		duplicateOffset: DefaultDuplicateOffset,
		historyLimit:    DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ids == nil {
		e.ids = UUIDv7Generator{}
	}
	if e.zclock == nil {
		e.zclock = NewZClock()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.resetHistory()
	return e
}

// Load replaces the whole document and makes current the active side.
// Histories restart from the loaded shapes and the selection is cleared.
// The clipboard survives so shapes can be pasted across projects.
func (e *Editor) Load(doc document.Document, current document.SideID) {
	e.doc = doc.Clone()
	if current != document.Back {
		current = document.Front
	}
	e.current = current
	e.selected = ""
	e.resetHistory()
	e.changed(document.Front)
	e.changed(document.Back)
	e.logger.Debug("document loaded",
		"current", current,
		"front_shapes", len(e.doc.Front.Shapes),
		"back_shapes", len(e.doc.Back.Shapes))
}

func (e *Editor) resetHistory() {
	e.history = map[document.SideID]*history.History{
		document.Front: history.New(e.doc.Front.Shapes, e.historyLimit),
		document.Back:  history.New(e.doc.Back.Shapes, e.historyLimit),
	}
	e.zclock.Observe(shape.MaxZIndex(e.doc.Front.Shapes))
	e.zclock.Observe(shape.MaxZIndex(e.doc.Back.Shapes))
}

// Shapes returns a copy of the active side's shapes in insertion order.
func (e *Editor) Shapes() []shape.Shape {
	return shape.CloneAll(e.side().Shapes)
}

// Shape returns a copy of the shape with id on the active side.
func (e *Editor) Shape(id string) (shape.Shape, bool) {
	s, ok := e.side().Find(id)
	if !ok {
		return shape.Shape{}, false
	}
	return shape.Clone(s), true
}

// Settings returns the active side's canvas settings.
func (e *Editor) Settings() document.Settings {
	return e.side().Settings
}

// CurrentSide returns the active side id.
func (e *Editor) CurrentSide() document.SideID {
	return e.current
}

// Side returns a copy of the side named id.
func (e *Editor) Side(id document.SideID) document.Side {
	return e.doc.Side(id).Clone()
}

// Document returns a copy of both sides.
func (e *Editor) Document() document.Document {
	return e.doc.Clone()
}

// SelectedID returns the selected shape id, or "" when nothing is selected.
func (e *Editor) SelectedID() string {
	return e.selected
}

// Selected returns a copy of the selected shape.
func (e *Editor) Selected() (shape.Shape, bool) {
	if e.selected == "" {
		return shape.Shape{}, false
	}
	return e.Shape(e.selected)
}

// OnChange registers h to run after every applied change.
func (e *Editor) OnChange(h ChangeHook) {
	e.hooks = append(e.hooks, h)
}

// Revision returns a counter that increments on every applied change.
func (e *Editor) Revision() uint64 {
	return e.revision
}

// CanUndo reports whether the active side has a state to undo to.
func (e *Editor) CanUndo() bool {
	return e.history[e.current].CanUndo()
}

// CanRedo reports whether the active side has a state to redo to.
func (e *Editor) CanRedo() bool {
	return e.history[e.current].CanRedo()
}

// HasClipboard reports whether PasteShape would add anything.
func (e *Editor) HasClipboard() bool {
	return len(e.clipboard) > 0
}

// SelectShape sets the selection. An empty id clears it; an id not on the
// active side is ignored and reported as false.
func (e *Editor) SelectShape(id string) bool {
	if id == "" {
		e.selected = ""
		return true
	}
	if shape.IndexOf(e.side().Shapes, id) < 0 {
		return false
	}
	e.selected = id
	return true
}

// SelectAt selects the topmost visible shape under (x, y), or clears the
// selection when nothing is hit.
func (e *Editor) SelectAt(x, y float64) (string, bool) {
	id, ok := shape.HitTest(e.side().Shapes, shape.Point{X: x, Y: y})
	e.selected = id
	return id, ok
}

func (e *Editor) side() *document.Side {
	return e.doc.Side(e.current)
}

// commit replaces the active side's shapes, records them in that side's
// history and notifies hooks.
func (e *Editor) commit(op string, next []shape.Shape) {
	s := e.side()
	s.Shapes = next
	e.history[e.current].Record(next)
	e.changed(e.current)
	e.logger.Debug("shapes committed", "op", op, "side", e.current, "count", len(next))
}

func (e *Editor) changed(side document.SideID) {
	e.revision++
	for _, h := range e.hooks {
		h(side)
	}
}
