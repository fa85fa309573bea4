package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/project"
	"github.com/roach88/cardsmith/internal/shape"
	"github.com/roach88/cardsmith/internal/testutil"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CARDSMITH_DB", "")
	t.Setenv("CARDSMITH_USER", "")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeData unmarshals the data field of a JSON CLIResponse into v.
func decodeData(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	if v != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return CLIResponse{Status: resp.Status, Error: resp.Error}
}

// sampleDocument has one rect on the front and nothing on the back.
func sampleDocument() document.Document {
	doc := document.New()
	r := shape.DefaultRect(40, 30)
	r.ID = "badge-frame"
	r.ZIndex = 1
	doc.Front.Shapes = append(doc.Front.Shapes, r)
	doc.Front.Settings.ShowGrid = false
	doc.Back.Settings.ShowGrid = false
	return doc
}

// writeProject encodes doc into dir/name and returns the path.
func writeProject(t *testing.T, dir, name string, doc document.Document) string {
	t.Helper()
	data, err := project.Encode(project.New(doc, document.Front, testutil.Epoch))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// readProject decodes the project at path.
func readProject(t *testing.T, path string) project.Project {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	p, err := project.Decode(data)
	require.NoError(t, err)
	return p
}

const simpleScenario = `name: simple
description: add and move one rect
steps:
  - op: add
    kind: rect
    x: 10
    y: 10
    as: r1
  - op: move
    shape: r1
    x: 30
    y: 40
    expect: true
assertions:
  - type: shape_count
    count: 1
  - type: shape
    shape: r1
    expect: { type: rect, x: 30, y: 40 }
`

const failingScenario = `name: failing
steps:
  - op: undo
    expect: true
`

// writeScenario writes a scenario file into dir and returns its path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
