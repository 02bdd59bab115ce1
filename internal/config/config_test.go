package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Models.MinTrainingSamples)
	assert.Equal(t, 50, cfg.Models.MinChurnVisitors)
	assert.Equal(t, 7, cfg.Forecast.DefaultHorizonDays)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9999
models:
  min_training_samples: 250
`)
	require.NoError(t, os.WriteFile(path, data, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Models.MinTrainingSamples)
	// Untouched values keep their defaults.
	assert.Equal(t, 50, cfg.Models.MinChurnVisitors)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INSIGHT_PORT", "7777")
	t.Setenv("INSIGHT_DB_HOST", "db.internal")
	t.Setenv("INSIGHT_MIN_TRAINING_SAMPLES", "500")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 500, cfg.Models.MinTrainingSamples)
}

func TestLoad_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("INSIGHT_PORT", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
