package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")

const smallScenario = `name: small
description: "A single number"
cases:
  - name: one
    text: '1'
    expect:
      kind: number
assertions:
  - type: round_trip
`

const failingScenario = `name: failing
description: "Wrong expected kind"
cases:
  - name: one
    text: '1'
    expect:
      kind: string
`

func TestCheckCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestCheckCommandNonExistentPath(t *testing.T) {
	_, _, err := execute(t, "", "check", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenario path not found")
}

func TestCheckCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "", "check", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestCheckCommandHarnessScenarios(t *testing.T) {
	out, _, err := execute(t, "", "check", harnessScenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ references")
	assert.Contains(t, out, "✓ builtins")
	assert.Contains(t, out, "Check Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestCheckCommandFilter(t *testing.T) {
	out, _, err := execute(t, "", "check", harnessScenarios, "--filter", "ref*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ references")
	assert.NotContains(t, out, "builtins")
	assert.Contains(t, out, "1 total")
}

func TestCheckCommandFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "failing.yaml", failingScenario)

	out, _, err := execute(t, "", "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "Check Summary: 0 passed, 1 failed, 1 total")
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.yaml", smallScenario)
	writeFile(t, dir, "failing.yaml", failingScenario)

	out, _, err := execute(t, "", "check", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
		Error  *CLIError   `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CHECK_FAILED", resp.Error.Code)
}

func TestCheckCommandGoldenUpdate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "small.yaml", smallScenario)
	golden := filepath.Join(dir, "golden", "small.golden")

	out, _, err := execute(t, "", "check", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ small (golden updated)")

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Equal(t, `{"pass":true,"scenario":"small"}`+"\n"+
		`{"name":"one","kind":"number","text":"1","tree":["$num",1]}`+"\n", string(data))

	// directory scans skip the golden directory
	out, _, err = execute(t, "", "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	require.NoError(t, os.WriteFile(golden, []byte("stale\n"), 0644))
	out, _, err = execute(t, "", "check", path)
	require.Error(t, err)
	assert.Contains(t, out, "golden file mismatch")
}
