// Package editor is the single source of truth for an ID card editing
// session.
//
// An Editor owns a two-sided document, the selection, an in-process
// clipboard and one undo/redo history per side. It is an explicit context
// object: create one per session with New and pass it to whatever drives it
// (the CLI, a script runner, a UI loop).
//
// THREADING MODEL:
//
// The Editor is not safe for concurrent use. All mutations are expected to
// run on one goroutine, in response to discrete inputs. Every operation
// completes synchronously, so the Editor is never observed mid-mutation.
// Background workers (render adapter, autosaver) receive copies through
// change hooks or accessors and never hold references into live state.
//
// FAILURE SEMANTICS:
//
// Operations that reference a shape id never fail hard. An unknown id is a
// no-op and the method reports false. The same holds for operations that
// need a selection or clipboard content when there is none.
//
// HISTORY:
//
// Shape mutations are recorded in the current side's history; each side
// undoes independently. Selection changes, side switches and canvas
// settings edits are not recorded.
package editor
