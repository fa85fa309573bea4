package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/editor"
	"github.com/roach88/cardsmith/internal/layout"
	"github.com/roach88/cardsmith/internal/shape"
	"github.com/roach88/cardsmith/internal/testutil"
)

// Harness drives one editor through a scenario.
type Harness struct {
	editor  *editor.Editor
	ids     *testutil.SequenceGenerator
	aliases map[string]string
	logger  *slog.Logger
}

// Option configures a run.
type Option func(*Harness)

// WithLogger sets the run's logger. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes scenario against a fresh editor and returns the result.
//
// An error is returned only when the scenario cannot be executed (bad
// reference, unreadable project). Failed expectations and assertions are
// reported in the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		ids:     testutil.NewSequenceGenerator("shape"),
		aliases: make(map[string]string),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.editor = editor.New(h.ids, editor.WithLogger(h.logger))

	if scenario.Project != "" {
		data, err := os.ReadFile(scenario.Project)
		if err != nil {
			return nil, fmt.Errorf("failed to read project: %w", err)
		}
		if err := h.editor.LoadProject(data); err != nil {
			return nil, fmt.Errorf("failed to load project: %w", err)
		}
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		ev, err := h.apply(step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		ev.Step = i
		ev.Op = step.Op
		ev.Side = string(h.editor.CurrentSide())
		ev.Revision = h.editor.Revision()
		result.AddTrace(ev)

		if step.Expect != nil && *step.Expect != ev.OK {
			result.AddError(fmt.Sprintf("steps[%d] (%s): expected %v, got %v", i, step.Op, *step.Expect, ev.OK))
		}
		h.logger.Debug("step applied", "step", i, "op", step.Op, "shape", ev.Shape, "ok", ev.OK)
	}

	for _, msg := range h.evaluate(scenario.Assertions, result.Trace) {
		result.AddError(msg)
	}
	result.Document = h.editor.Document()
	result.CurrentSide = h.editor.CurrentSide()
	return result, nil
}

// RunFile loads and runs the scenario at path.
func RunFile(path string, opts ...Option) (*Scenario, *Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	result, err := Run(scenario, opts...)
	return scenario, result, err
}

// ref resolves an alias to a shape id. Unknown names are used as ids.
func (h *Harness) ref(name string) string {
	if id, ok := h.aliases[name]; ok {
		return id
	}
	return name
}

func (h *Harness) refs(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = h.ref(n)
	}
	return out
}

func (h *Harness) bind(alias, id string) {
	if alias != "" && id != "" {
		h.aliases[alias] = id
	}
}

func times(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// apply executes one step and reports its outcome.
func (h *Harness) apply(step Step) (TraceEvent, error) {
	ed := h.editor
	id := h.ref(step.Shape)
	ev := TraceEvent{Shape: id}

	switch step.Op {
	case OpAdd:
		kind, err := shape.ParseKind(step.Kind)
		if err != nil {
			return ev, err
		}
		s, err := shape.Default(kind, step.X, step.Y)
		if err != nil {
			return ev, err
		}
		if step.Width > 0 {
			s.Width = step.Width
		}
		if step.Height > 0 {
			s.Height = step.Height
		}
		if step.Props != nil {
			props, err := overlayProps(s.Props, step.Props)
			if err != nil {
				return ev, err
			}
			s.Props = props
		}
		ev.Shape = ed.AddShape(s)
		ev.OK = ev.Shape != ""
		h.bind(step.As, ev.Shape)

	case OpMove:
		ev.OK = ed.MoveShape(id, step.X, step.Y)
	case OpMoveBy:
		ev.OK = ed.MoveBy(id, step.DX, step.DY)
	case OpResize:
		ev.OK = ed.ResizeShape(id, step.Width, step.Height)
	case OpRotate:
		ev.OK = ed.RotateShape(id, step.Degrees)

	case OpUpdate:
		var patch shape.Patch
		if step.Patch != nil {
			patch = *step.Patch
		}
		if step.Props != nil {
			current, ok := ed.Shape(id)
			if !ok {
				break
			}
			props, err := overlayProps(current.Props, step.Props)
			if err != nil {
				return ev, err
			}
			patch.Props = props
		}
		ev.OK = ed.UpdateShape(id, patch)

	case OpDelete:
		ev.OK = ed.DeleteShape(id)
	case OpDuplicate:
		var dup string
		dup, ev.OK = ed.DuplicateShape(id)
		ev.IDs = nonEmpty(dup)
		h.bind(step.As, dup)
	case OpCopy:
		ev.OK = ed.CopyShape(id)
	case OpCut:
		ev.OK = ed.CutShape(id)
	case OpPaste:
		for range times(step.Times) {
			ev.IDs = append(ev.IDs, ed.PasteShape()...)
		}
		ev.OK = len(ev.IDs) > 0
		if ev.OK {
			h.bind(step.As, ev.IDs[len(ev.IDs)-1])
		}

	case OpSelect:
		ev.OK = ed.SelectShape(id)
	case OpSelectAt:
		var hit string
		hit, ev.OK = ed.SelectAt(step.X, step.Y)
		ev.IDs = nonEmpty(hit)

	case OpSwitch:
		side, err := document.ParseSide(step.Side)
		if err != nil {
			return ev, err
		}
		ev.OK = ed.SwitchToSide(side)
	case OpSettings:
		if step.Settings == nil {
			return ev, fmt.Errorf("settings is required")
		}
		ev.OK = ed.UpdateCanvasSettings(*step.Settings)
	case OpToggleOrientation:
		ev.OK = ed.ToggleOrientation()
	case OpCardSize:
		p, err := document.LookupPreset(step.Preset)
		if err != nil {
			return ev, err
		}
		ev.OK = ed.SetCardSize(p)
	case OpBackgroundImage:
		ev.OK = ed.SetBackgroundImage(step.Src)
	case OpRemoveBackgroundImage:
		ev.OK = ed.RemoveBackgroundImage()

	case OpUndo:
		for range times(step.Times) {
			ev.OK = ed.Undo()
		}
	case OpRedo:
		for range times(step.Times) {
			ev.OK = ed.Redo()
		}

	case OpAlign:
		mode, err := layout.ParseAlignMode(step.Mode)
		if err != nil {
			return ev, err
		}
		ev.IDs = h.refs(step.Shapes)
		ev.OK = ed.Align(ev.IDs, mode)
	case OpDistribute:
		axis, err := layout.ParseAxis(step.Mode)
		if err != nil {
			return ev, err
		}
		ev.IDs = h.refs(step.Shapes)
		ev.OK = ed.Distribute(ev.IDs, axis)
	case OpZOrder:
		switch step.Mode {
		case "front":
			ev.OK = ed.BringToFront(id)
		case "back":
			ev.OK = ed.SendToBack(id)
		case "forward":
			ev.OK = ed.BringForward(id)
		case "backward":
			ev.OK = ed.SendBackward(id)
		default:
			return ev, fmt.Errorf("unknown zorder mode %q: must be front, back, forward or backward", step.Mode)
		}
	case OpClear:
		ev.OK = ed.ClearCanvas()

	default:
		return ev, fmt.Errorf("unknown op %q", step.Op)
	}
	return ev, nil
}

// overlayProps returns a copy of base with the fields in m replaced. The
// merge goes through the payload's JSON form, so m uses JSON field names.
func overlayProps(base shape.Props, m map[string]any) (shape.Props, error) {
	current, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("props: %w", err)
	}
	props, err := shape.DecodeProps(base.Kind(), current)
	if err != nil {
		return nil, err
	}
	overlay, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("props: %w", err)
	}
	if err := json.Unmarshal(overlay, props); err != nil {
		return nil, fmt.Errorf("props: %w", err)
	}
	return props, nil
}

func nonEmpty(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}
