package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/editor"
	"github.com/roach88/cardsmith/internal/shape"
	"github.com/roach88/cardsmith/internal/testutil"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func mustRun(t *testing.T, src string) *Result {
	t.Helper()
	result, err := Run(mustParse(t, src))
	require.NoError(t, err)
	return result
}

func TestRunWithGolden_BadgeBasics(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/badge_basics.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "name: x\nsteps:\n  - op: clear\n    colour: red\n", "field colour not found"},
		{"missing name", "steps:\n  - op: clear\n", "name is required"},
		{"no steps", "name: x\n", "steps list is required"},
		{"unknown op", "name: x\nsteps:\n  - op: explode\n", `unknown op "explode"`},
		{"missing shape", "name: x\nsteps:\n  - op: move\n    x: 1\n", "shape is required for move"},
		{"bad kind", "name: x\nsteps:\n  - op: add\n    kind: hexagon\n", "unknown shape kind"},
		{"bad side", "name: x\nsteps:\n  - op: switch\n    side: left\n", "unknown side"},
		{"settings missing", "name: x\nsteps:\n  - op: settings\n", "settings is required"},
		{"align without shapes", "name: x\nsteps:\n  - op: align\n    mode: left\n", "shapes is required"},
		{"negative times", "name: x\nsteps:\n  - op: undo\n    times: -1\n", "times must be non-negative"},
		{"unknown assertion", "name: x\nsteps:\n  - op: clear\nassertions:\n  - type: vibes\n", "unknown assertion type"},
		{"count missing", "name: x\nsteps:\n  - op: clear\nassertions:\n  - type: shape_count\n", "count is required"},
		{"current side missing", "name: x\nsteps:\n  - op: clear\nassertions:\n  - type: current_side\n", "side is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRun_SideIsolation(t *testing.T) {
	result := mustRun(t, `
name: side_isolation
steps:
  - { op: add, kind: rect, x: 10, y: 10, as: front_rect }
  - { op: switch, side: back }
  - { op: add, kind: circle, x: 50, y: 50 }
  - { op: switch, side: front }
assertions:
  - { type: shape_count, count: 1 }
  - { type: shape, shape: front_rect, expect: { x: 10, y: 10 } }
  - { type: shape_count, side: back, count: 1 }
  - { type: shape_absent, side: back, shape: front_rect }
`)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Document.Front.Shapes, 1)
	assert.Len(t, result.Document.Back.Shapes, 1)
}

func TestRun_PasteStacks(t *testing.T) {
	result := mustRun(t, `
name: paste_stacks
steps:
  - { op: add, kind: rect, x: 100, y: 100, as: r }
  - { op: copy, shape: r }
  - { op: paste, as: p1 }
  - { op: paste, as: p2 }
assertions:
  - { type: shape_count, count: 3 }
  - { type: shape, shape: p1, expect: { x: 120, y: 120 } }
  - { type: shape, shape: p2, expect: { x: 140, y: 140 } }
  - { type: selected, shape: p2 }
`)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{"shape-2"}, result.Trace[2].IDs)
	assert.Equal(t, []string{"shape-3"}, result.Trace[3].IDs)
}

func TestRun_UndoRedo(t *testing.T) {
	result := mustRun(t, `
name: undo_redo
steps:
  - { op: add, kind: rect, x: 0, y: 0, as: a }
  - { op: add, kind: rect, x: 0, y: 0, as: b }
  - { op: add, kind: rect, x: 0, y: 0, as: c }
  - { op: undo, times: 3, expect: true }
  - { op: undo, expect: false }
  - { op: redo, times: 2 }
assertions:
  - { type: shape_count, count: 2 }
  - { type: shape_absent, shape: c }
  - { type: can_undo, value: true }
  - { type: can_redo, value: true }
`)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectationFailureIsReported(t *testing.T) {
	result := mustRun(t, `
name: expectation
steps:
  - { op: delete, shape: ghost, expect: true }
`)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "steps[0] (delete): expected true, got false")
}

func TestRun_AssertionFailureIsReported(t *testing.T) {
	result := mustRun(t, `
name: assertion
steps:
  - { op: add, kind: rect, x: 5, y: 5, as: r }
assertions:
  - { type: shape, shape: r, expect: { x: 6 } }
  - { type: shape_count, count: 4 }
  - { type: can_undo, value: false }
`)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "x = 6")
	assert.Contains(t, result.Errors[0], "x = 5")
	assert.Contains(t, result.Errors[1], "4 shapes")
	assert.Contains(t, result.Errors[2], "can_undo")
}

func TestRun_UpdateWithPatchAndProps(t *testing.T) {
	result := mustRun(t, `
name: update
steps:
  - op: add
    kind: text
    x: 0
    y: 0
    props: { text: "Jane Doe" }
    as: name
  - op: update
    shape: name
    patch: { locked: true, opacity: 0.5 }
    props: { fontSize: 24 }
  - { op: move, shape: name, x: 50, y: 50, expect: false }
assertions:
  - type: shape
    shape: name
    expect:
      locked: true
      opacity: 0.5
      x: 0
      props: { text: "Jane Doe", fontSize: 24 }
`)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ArrangeAndZOrder(t *testing.T) {
	result := mustRun(t, `
name: arrange
steps:
  - { op: add, kind: rect, x: 10, y: 0, as: a }
  - { op: add, kind: rect, x: 50, y: 100, as: b }
  - { op: align, shapes: [a, b], mode: left }
  - { op: zorder, shape: a, mode: front }
assertions:
  - { type: shape, shape: b, expect: { x: 10 } }
  - { type: shape, shape: a, expect: { zIndex: 2 } }
  - { type: shape, shape: b, expect: { zIndex: 1 } }
`)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_BadZOrderMode(t *testing.T) {
	_, err := Run(mustParse(t, `
name: zorder
steps:
  - { op: add, kind: rect, as: a }
  - { op: zorder, shape: a, mode: sideways }
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (zorder)")
}

func TestRun_Settings(t *testing.T) {
	result := mustRun(t, `
name: settings
steps:
  - { op: toggle_orientation }
  - { op: card_size, preset: cr100 }
  - { op: background_image, src: "bg.png" }
  - { op: remove_background_image }
  - { op: remove_background_image, expect: false }
assertions:
  - { type: settings, expect: { orientation: portrait, width: 670, height: 985 } }
  - { type: can_undo, value: false }
`)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_LoadsProject(t *testing.T) {
	dir := t.TempDir()
	ed := editor.New(testutil.NewSequenceGenerator("seed"))
	ed.AddShape(shape.DefaultRect(30, 40))
	data, err := ed.SaveProject(testutil.Epoch)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "start.json"), data, 0o600))

	scenario := "name: from_project\nproject: start.json\nsteps:\n  - { op: add, kind: qr }\n" +
		"assertions:\n  - { type: shape_count, count: 2 }\n  - { type: shape, shape: seed-1, expect: { x: 30, y: 40, zIndex: 1 } }\n" +
		"  - { type: shape, shape: shape-1, expect: { zIndex: 2 } }\n"
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o600))

	s, result, err := RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "start.json"), s.Project)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_BadProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o600))

	_, err := Run(&Scenario{
		Name:    "bad",
		Project: filepath.Join(dir, "bad.json"),
		Steps:   []Step{{Op: OpClear}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load project")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertSelected,
		Expected: `selected "a"`,
		Actual:   `selected ""`,
		Trace:    []TraceEvent{{Step: 0, Op: OpAdd, Shape: "a", OK: true}},
	}
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "Assertion failed: selected\n"))
	assert.Contains(t, msg, "[0] add a ok=true")
}

func TestMatchSubset(t *testing.T) {
	actual := map[string]any{"x": 1.0, "props": map[string]any{"fill": "#fff", "strokeWidth": 2.0}}

	_, ok := matchSubset(actual, map[string]any{"x": 1, "props": map[string]any{"strokeWidth": 2}})
	assert.True(t, ok)

	key, ok := matchSubset(actual, map[string]any{"props": map[string]any{"fill": "#000"}})
	assert.False(t, ok)
	assert.Equal(t, "props.fill", key)
	assert.Equal(t, "#fff", lookup(actual, key))

	key, ok = matchSubset(actual, map[string]any{"y": 0})
	assert.False(t, ok)
	assert.Equal(t, "y", key)
}

func TestNewSnapshot(t *testing.T) {
	result := NewResult()
	result.CurrentSide = document.Back
	result.Document = document.New()

	snap := NewSnapshot("empty", result)
	assert.Equal(t, "back", snap.CurrentSide)
	assert.NotNil(t, snap.Front)
	assert.Empty(t, snap.Back)

	data, err := snap.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), `"front": []`)
}
