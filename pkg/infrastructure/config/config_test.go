package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factorysim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, int64(10000), cfg.Simulation.MaxTimeSteps)
	assert.Equal(t, int64(-1), cfg.Simulation.WarehouseCapacity)
	assert.True(t, cfg.Simulation.CondenseSupplies)
	assert.Equal(t, "exhaustive", cfg.Optimizer.Strategy)
	assert.Equal(t, 200, cfg.Optimizer.Trials)
	assert.False(t, cfg.Logging.Enabled)
	assert.True(t, cfg.Logging.Steps)
	assert.Equal(t, "csv", cfg.Data.Format)
	assert.Equal(t, "text", cfg.Output.Format)

	assert.Equal(t, cfg, Default())
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
simulation:
  max_time_steps: 500
  drivers: 2
optimizer:
  strategy: greedy
  seed: 42
logging:
  enabled: true
  warehouse: false
data:
  source: plant.yaml
  format: yaml
`)
	t.Setenv("FSIM_OPTIMIZER_TRIALS", "25")
	t.Setenv("FSIM_LOGGING_FORMAT", "json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, int64(500), cfg.Simulation.MaxTimeSteps)
	assert.Equal(t, 2, cfg.Simulation.Drivers)
	assert.Equal(t, "greedy", cfg.Optimizer.Strategy)
	assert.Equal(t, int64(42), cfg.Optimizer.Seed)
	assert.Equal(t, 25, cfg.Optimizer.Trials)
	assert.True(t, cfg.Logging.Enabled)
	assert.False(t, cfg.Logging.Warehouse)
	assert.True(t, cfg.Logging.Production, "untouched toggles keep their default")
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "yaml", cfg.Data.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown strategy", "optimizer:\n  strategy: annealing\n", "Config.Optimizer.Strategy"},
		{"zero time steps", "simulation:\n  max_time_steps: 0\n", "Config.Simulation.MaxTimeSteps"},
		{"bad output format", "output:\n  format: xml\n", "Config.Output.Format"},
		{"metrics without textfile", "metrics:\n  enabled: true\n", "Config.Metrics.Textfile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
