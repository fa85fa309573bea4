package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// ShapeSummary is the part of a shape recorded in golden snapshots.
type ShapeSummary struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ZIndex int64   `json:"zIndex"`
}

// Snapshot is the golden form of a scenario run.
type Snapshot struct {
	Scenario    string         `json:"scenario"`
	Pass        bool           `json:"pass"`
	Trace       []TraceEvent   `json:"trace"`
	CurrentSide string         `json:"currentSide"`
	Front       []ShapeSummary `json:"front"`
	Back        []ShapeSummary `json:"back"`
}

// NewSnapshot builds the golden form of result.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		Scenario:    name,
		Pass:        result.Pass,
		Trace:       result.Trace,
		CurrentSide: string(result.CurrentSide),
		Front:       summarize(result.Document.Front.Shapes),
		Back:        summarize(result.Document.Back.Shapes),
	}
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(name, result).Marshal()
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
