package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/shape"
)

// Scenario is an editor script.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Project is an optional project JSON file loaded before the steps run.
	// Relative paths resolve against the scenario file's directory.
	Project string `yaml:"project,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one editor operation. Which fields are read depends on Op.
type Step struct {
	Op string `yaml:"op"`

	// Shape and Shapes refer to shapes by alias or id.
	Shape  string   `yaml:"shape,omitempty"`
	Shapes []string `yaml:"shapes,omitempty"`

	// As binds the id produced by add, duplicate or paste to an alias.
	As string `yaml:"as,omitempty"`

	Kind    string  `yaml:"kind,omitempty"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	DX      float64 `yaml:"dx,omitempty"`
	DY      float64 `yaml:"dy,omitempty"`
	Width   float64 `yaml:"width,omitempty"`
	Height  float64 `yaml:"height,omitempty"`
	Degrees float64 `yaml:"degrees,omitempty"`

	Side   string `yaml:"side,omitempty"`
	Mode   string `yaml:"mode,omitempty"`
	Preset string `yaml:"preset,omitempty"`
	Src    string `yaml:"src,omitempty"`

	// Times repeats undo, redo and paste. Zero means once.
	Times int `yaml:"times,omitempty"`

	Patch    *shape.Patch            `yaml:"patch,omitempty"`
	Props    map[string]any          `yaml:"props,omitempty"`
	Settings *document.SettingsPatch `yaml:"settings,omitempty"`

	// Expect checks the operation's boolean outcome.
	Expect *bool `yaml:"expect,omitempty"`
}

// Step operations.
const (
	OpAdd                   = "add"
	OpMove                  = "move"
	OpMoveBy                = "move_by"
	OpResize                = "resize"
	OpRotate                = "rotate"
	OpUpdate                = "update"
	OpDelete                = "delete"
	OpDuplicate             = "duplicate"
	OpCopy                  = "copy"
	OpCut                   = "cut"
	OpPaste                 = "paste"
	OpSelect                = "select"
	OpSelectAt              = "select_at"
	OpSwitch                = "switch"
	OpSettings              = "settings"
	OpToggleOrientation     = "toggle_orientation"
	OpCardSize              = "card_size"
	OpBackgroundImage       = "background_image"
	OpRemoveBackgroundImage = "remove_background_image"
	OpUndo                  = "undo"
	OpRedo                  = "redo"
	OpAlign                 = "align"
	OpDistribute            = "distribute"
	OpZOrder                = "zorder"
	OpClear                 = "clear"
)

// needsShape lists operations that act on a single shape.
var needsShape = map[string]bool{
	OpMove: true, OpMoveBy: true, OpResize: true, OpRotate: true,
	OpUpdate: true, OpDelete: true, OpDuplicate: true, OpCopy: true,
	OpCut: true, OpZOrder: true,
}

var knownOps = map[string]bool{
	OpAdd: true, OpMove: true, OpMoveBy: true, OpResize: true, OpRotate: true,
	OpUpdate: true, OpDelete: true, OpDuplicate: true, OpCopy: true, OpCut: true,
	OpPaste: true, OpSelect: true, OpSelectAt: true, OpSwitch: true,
	OpSettings: true, OpToggleOrientation: true, OpCardSize: true,
	OpBackgroundImage: true, OpRemoveBackgroundImage: true, OpUndo: true,
	OpRedo: true, OpAlign: true, OpDistribute: true, OpZOrder: true, OpClear: true,
}

// Assertion checks the editor state after all steps ran.
type Assertion struct {
	Type string `yaml:"type"`

	// Side selects the side for shape_count, shape, shape_absent and
	// settings. Empty means the active side.
	Side string `yaml:"side,omitempty"`

	// Shape is an alias or id.
	Shape string `yaml:"shape,omitempty"`

	Count *int  `yaml:"count,omitempty"`
	Value *bool `yaml:"value,omitempty"`

	// Expect is a subset of the shape or settings JSON.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion types.
const (
	AssertShapeCount  = "shape_count"
	AssertShape       = "shape"
	AssertShapeAbsent = "shape_absent"
	AssertSelected    = "selected"
	AssertCurrentSide = "current_side"
	AssertCanUndo     = "can_undo"
	AssertCanRedo     = "can_redo"
	AssertSettings    = "settings"
)

// LoadScenario reads and validates a scenario file. Unknown YAML fields
// are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if s.Project != "" && !filepath.IsAbs(s.Project) {
		s.Project = filepath.Join(filepath.Dir(path), s.Project)
	}
	return s, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if needsShape[step.Op] && step.Shape == "" {
			return fmt.Errorf("steps[%d]: shape is required for %s", i, step.Op)
		}
		switch step.Op {
		case OpAdd:
			if _, err := shape.ParseKind(step.Kind); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		case OpSwitch:
			if _, err := document.ParseSide(step.Side); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		case OpSettings:
			if step.Settings == nil {
				return fmt.Errorf("steps[%d]: settings is required for %s", i, step.Op)
			}
		case OpAlign, OpDistribute:
			if len(step.Shapes) == 0 {
				return fmt.Errorf("steps[%d]: shapes is required for %s", i, step.Op)
			}
		}
		if step.Times < 0 {
			return fmt.Errorf("steps[%d]: times must be non-negative", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Side != "" {
		if _, err := document.ParseSide(a.Side); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	}

	switch a.Type {
	case AssertShapeCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for shape_count", index)
		}
	case AssertShape:
		if a.Shape == "" || len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: shape and expect are required for shape", index)
		}
	case AssertShapeAbsent:
		if a.Shape == "" {
			return fmt.Errorf("assertions[%d]: shape is required for shape_absent", index)
		}
	case AssertSelected:
	case AssertCurrentSide:
		if a.Side == "" {
			return fmt.Errorf("assertions[%d]: side is required for current_side", index)
		}
	case AssertCanUndo, AssertCanRedo:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertSettings:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for settings", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
