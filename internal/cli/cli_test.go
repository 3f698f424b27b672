package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `
movie:
  width: 100
  height: 100
  duration: 4
layers:
  - type: text
    name: title
    start: 0
    duration: 3
    options:
      text: "hi"
    properties:
      x:
        "0": 0
        "4": 100
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_RejectsInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "validate", "whatever.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestValidate_ValidDocument(t *testing.T) {
	path := writeDoc(t, testDoc)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid (1 layers)")
}

func TestValidate_JSONOutput(t *testing.T) {
	path := writeDoc(t, testDoc)

	out, _, err := execute(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_SchemaViolation(t *testing.T) {
	path := writeDoc(t, `
movie:
  width: 100
  height: 100
  duration: 4
layers:
  - type: sprite
`)

	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "SCHEMA_VIOLATION")
}

func TestValidate_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolve_Midpoint(t *testing.T) {
	path := writeDoc(t, testDoc)

	out, _, err := execute(t, "resolve", path, "--layer", "title", "--property", "x", "--time", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "title.x @ 2 = 50")
}

func TestResolve_JSONOutput(t *testing.T) {
	path := writeDoc(t, testDoc)

	out, _, err := execute(t, "--format", "json", "resolve", path, "--layer", "title", "--property", "x", "--time", "2")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, 50.0, data["value"])
}

func TestResolve_UnknownLayer(t *testing.T) {
	path := writeDoc(t, testDoc)

	_, _, err := execute(t, "resolve", path, "--layer", "ghost", "--property", "x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolve_NoUpperKeyframe(t *testing.T) {
	path := writeDoc(t, testDoc)

	out, _, err := execute(t, "resolve", path, "--layer", "title", "--property", "x", "--time", "9")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "NO_UPPER_KEYFRAME")
}

func TestRender_WritesFramesAndJournal(t *testing.T) {
	path := writeDoc(t, testDoc)
	outDir := filepath.Join(t.TempDir(), "frames")
	dbPath := filepath.Join(t.TempDir(), "trace.db")

	out, _, err := execute(t, "render", path, "--out", outDir, "--journal", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "5 tick(s)")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	// Active at ticks 0, 1, 2 of the 0..4 range.
	assert.Len(t, entries, 3)

	assert.FileExists(t, dbPath)
}

func TestTrace_ReplaysJournal(t *testing.T) {
	path := writeDoc(t, testDoc)
	dbPath := filepath.Join(t.TempDir(), "trace.db")

	_, _, err := execute(t, "render", path, "--journal", dbPath)
	require.NoError(t, err)

	out, _, err := execute(t, "trace", "--journal", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "frame")
	assert.Contains(t, out, "active=true")
}

func TestTrace_JSONOutput(t *testing.T) {
	path := writeDoc(t, testDoc)
	dbPath := filepath.Join(t.TempDir(), "trace.db")

	_, _, err := execute(t, "render", path, "--journal", dbPath)
	require.NoError(t, err)

	out, _, err := execute(t, "--format", "json", "trace", "--journal", dbPath)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	rows := resp.Data.([]any)
	assert.NotEmpty(t, rows)
}

func TestTrace_BadLayerID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	_, _, err := execute(t, "trace", "--journal", dbPath, "--layer", "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
