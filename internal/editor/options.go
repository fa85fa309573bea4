package editor

import (
	"log/slog"

	"github.com/roach88/cardsmith/internal/document"
)

// Defaults for editor behaviour.
const (
	// DefaultPasteOffset shifts each paste so it does not cover its source.
	DefaultPasteOffset = 20

	// DefaultDuplicateOffset shifts duplicates the same way.
	DefaultDuplicateOffset = 20

	// DefaultHistoryLimit keeps every undo step. Undoing all the way always
	// returns to the side's initial shapes.
	DefaultHistoryLimit = 0
)

// ChangeHook is called after every state change with the side that changed.
type ChangeHook func(side document.SideID)

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithPasteOffset sets the paste offset in pixels.
func WithPasteOffset(px float64) EditorOption {
	return func(e *Editor) {
		e.pasteOffset = px
	}
}

// WithDuplicateOffset sets the duplicate offset in pixels.
func WithDuplicateOffset(px float64) EditorOption {
	return func(e *Editor) {
		e.duplicateOffset = px
	}
}

// WithHistoryLimit caps undo depth per side. 0 means unbounded.
func WithHistoryLimit(n int) EditorOption {
	return func(e *Editor) {
		e.historyLimit = n
	}
}

// WithZClock replaces the z-index clock.
func WithZClock(c *ZClock) EditorOption {
	return func(e *Editor) {
		e.zclock = c
	}
}

// WithLogger sets the logger used for debug tracing of operations.
func WithLogger(l *slog.Logger) EditorOption {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithChangeHook registers a hook invoked after every change.
func WithChangeHook(h ChangeHook) EditorOption {
	return func(e *Editor) {
		e.hooks = append(e.hooks, h)
	}
}

// WithDocument starts the editor on an existing document.
func WithDocument(doc document.Document) EditorOption {
	return func(e *Editor) {
		e.doc = doc.Clone()
	}
}
