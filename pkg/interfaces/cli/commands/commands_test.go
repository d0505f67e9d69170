package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plantDir = filepath.Join("..", "..", "..", "infrastructure", "repositories", "csv", "testdata", "plant")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "--data", plantDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Instance plant")
	assert.Contains(t, out, "Orders:       2")
	assert.Contains(t, out, "Instance is valid")
}

func TestOptimizeCommand_GreedyJSON(t *testing.T) {
	out, err := run(t, "optimize", "--data", plantDir, "--strategy", "greedy", "--output-format", "json")
	require.NoError(t, err)

	var outcome map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, "greedy", outcome["strategy"])
	assert.EqualValues(t, 1, outcome["trials"])
	assert.NotEmpty(t, outcome["steps"])
}

func TestOptimizeCommand_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "factorysim.prom")
	t.Setenv("FSIM_METRICS_ENABLED", "true")
	t.Setenv("FSIM_METRICS_TEXTFILE", metricsFile)

	_, err := run(t, "optimize", "--data", plantDir, "--trials", "6", "--seed", "3", "--workers", "2",
		"--output-format", "csv", "--output", dir, "--gantt")
	require.NoError(t, err)

	steps, err := os.ReadFile(filepath.Join(dir, "steps.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(steps), "seq;kind;item"))

	_, err = os.Stat(filepath.Join(dir, "gantt_exhaustive.svg"))
	assert.NoError(t, err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "factorysim_trials_total")
}

func TestOptimizeCommand_CriticalPath(t *testing.T) {
	out, err := run(t, "optimize", "--data", plantDir, "--strategy", "greedy", "--critical-path", "--top-paths", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Critical Path Analysis")
	assert.NotContains(t, out, "#2 ")
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, "compare", "--data", plantDir, "--trials", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Strategy Comparison")
	assert.Contains(t, out, "exhaustive")
	assert.Contains(t, out, "greedy")
	assert.Contains(t, out, "Best: ")
}

func TestGenerateThenOptimize(t *testing.T) {
	file := filepath.Join(t.TempDir(), "generated.yaml")
	out, err := run(t, "generate", "--out", file, "--format", "yaml", "--seed", "11", "--orders", "3")
	require.NoError(t, err)
	assert.Contains(t, out, file)

	out, err = run(t, "validate", "--data", file, "--data-format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Orders:       3")

	out, err = run(t, "optimize", "--data", file, "--data-format", "yaml", "--strategy", "greedy")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule Summary (greedy)")
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "optimize", "--data", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = run(t, "optimize", "--data", plantDir, "--strategy", "annealing")
	assert.Error(t, err)

	_, err = run(t, "optimize", "--data", plantDir, "--output-format", "xml")
	assert.Error(t, err)

	_, err = run(t, "generate")
	assert.Error(t, err)
}
