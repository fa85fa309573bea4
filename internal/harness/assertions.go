package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/shape"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s ok=%v\n", ev.Step, ev.Op, ev.Shape, ev.OK)
		}
	}
	return buf.String()
}

// evaluate checks every assertion and returns the failure messages.
func (h *Harness) evaluate(assertions []Assertion, trace []TraceEvent) []string {
	var errors []string
	for i, a := range assertions {
		if err := h.check(a, trace); err != nil {
			errors = append(errors, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errors
}

func (h *Harness) side(name string) document.Side {
	if name == "" {
		return h.editor.Side(h.editor.CurrentSide())
	}
	return h.editor.Side(document.SideID(name))
}

func (h *Harness) check(a Assertion, trace []TraceEvent) error {
	ed := h.editor
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: trace}
	}

	switch a.Type {
	case AssertShapeCount:
		got := len(h.side(a.Side).Shapes)
		if a.Count == nil || got != *a.Count {
			return fail(fmt.Sprintf("%s shapes", countString(a.Count)), fmt.Sprintf("%d shapes", got))
		}

	case AssertShape:
		id := h.ref(a.Shape)
		s, ok := h.side(a.Side).Find(id)
		if !ok {
			return fail(fmt.Sprintf("shape %s to exist", id), "not found")
		}
		actual, err := jsonMap(s)
		if err != nil {
			return err
		}
		if key, ok := matchSubset(actual, a.Expect); !ok {
			return fail(fmt.Sprintf("shape %s %s = %v", id, key, lookup(a.Expect, key)),
				fmt.Sprintf("%s = %v", key, lookup(actual, key)))
		}

	case AssertShapeAbsent:
		id := h.ref(a.Shape)
		if _, ok := h.side(a.Side).Find(id); ok {
			return fail(fmt.Sprintf("shape %s to be absent", id), "present")
		}

	case AssertSelected:
		want := ""
		if a.Shape != "" {
			want = h.ref(a.Shape)
		}
		if got := ed.SelectedID(); got != want {
			return fail(fmt.Sprintf("selected %q", want), fmt.Sprintf("selected %q", got))
		}

	case AssertCurrentSide:
		if got := string(ed.CurrentSide()); got != a.Side {
			return fail("side "+a.Side, "side "+got)
		}

	case AssertCanUndo, AssertCanRedo:
		got := ed.CanUndo()
		if a.Type == AssertCanRedo {
			got = ed.CanRedo()
		}
		if a.Value == nil || got != *a.Value {
			return fail(fmt.Sprintf("%s = %v", a.Type, boolString(a.Value)), fmt.Sprintf("%v", got))
		}

	case AssertSettings:
		actual, err := jsonMap(h.side(a.Side).Settings)
		if err != nil {
			return err
		}
		if key, ok := matchSubset(actual, a.Expect); !ok {
			return fail(fmt.Sprintf("settings %s = %v", key, lookup(a.Expect, key)),
				fmt.Sprintf("%s = %v", key, lookup(actual, key)))
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// jsonMap returns v's JSON form as a generic map.
func jsonMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// matchSubset checks that actual contains every key in expected with an
// equal value, descending into nested maps. On mismatch it returns the
// dotted path of the first differing key in sorted order.
func matchSubset(actual, expected map[string]any) (string, bool) {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		want := expected[k]
		got, exists := actual[k]
		if !exists {
			return k, false
		}
		if wantMap, ok := want.(map[string]any); ok {
			gotMap, ok := got.(map[string]any)
			if !ok {
				return k, false
			}
			if sub, ok := matchSubset(gotMap, wantMap); !ok {
				return k + "." + sub, false
			}
			continue
		}
		if !valuesEqual(got, want) {
			return k, false
		}
	}
	return "", true
}

// lookup follows a dotted path through nested maps.
func lookup(m map[string]any, path string) any {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[part]
	}
	return cur
}

// valuesEqual compares a JSON-decoded value with a YAML-decoded one. YAML
// yields ints where JSON yields float64, so numbers compare by value.
func valuesEqual(actual, expected any) bool {
	if a, ok := toFloat(actual); ok {
		if e, ok := toFloat(expected); ok {
			return a == e
		}
		return false
	}
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func countString(n *int) string {
	if n == nil {
		return "<unset>"
	}
	return fmt.Sprint(*n)
}

func boolString(b *bool) string {
	if b == nil {
		return "<unset>"
	}
	return fmt.Sprint(*b)
}

// summarize reduces shapes to the fields golden snapshots track.
func summarize(shapes []shape.Shape) []ShapeSummary {
	out := make([]ShapeSummary, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, ShapeSummary{
			ID:     s.ID,
			Type:   string(s.Kind()),
			X:      s.X,
			Y:      s.Y,
			Width:  s.Width,
			Height: s.Height,
			ZIndex: s.ZIndex,
		})
	}
	return out
}
