// Package harness runs editor scripts: YAML scenarios that drive an
// editor through a sequence of operations and then assert on the result.
//
// # Scenario Format
//
//	name: snap_move
//	description: "Moving with snap on lands on the grid"
//	project: fixtures/badge.json   # optional starting project
//	steps:
//	  - op: settings
//	    settings: { snap_to_grid: true, grid_size: 20 }
//	  - op: add
//	    kind: rect
//	    x: 100
//	    y: 100
//	    as: r1
//	  - op: move
//	    shape: r1
//	    x: 143
//	    y: 151
//	    expect: true
//	assertions:
//	  - type: shape
//	    shape: r1
//	    expect: { x: 140, y: 160 }
//
// Steps name shapes by the alias bound with "as" or by literal id. Every
// step records a trace event with the operation's outcome; "expect" on a
// step checks that outcome.
//
// # Assertion Types
//
//   - shape_count: number of shapes on a side (default: the active side)
//   - shape: subset match against the shape's project JSON
//   - shape_absent: no shape with that id on the side
//   - selected: the selected shape ("" for none)
//   - current_side: the active side
//   - can_undo, can_redo: history state of the active side
//   - settings: subset match against a side's canvas settings JSON
//
// # Determinism
//
// Shape ids come from a sequence generator ("shape-1", "shape-2", ...) and
// z-indexes from a fresh clock, so a scenario always produces the same
// trace. RunWithGolden snapshots the trace and the final shapes under
// testdata/golden.
package harness
