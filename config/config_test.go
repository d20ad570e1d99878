package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/parameters.yaml", cfg.Data.ParametersPath)
	assert.Equal(t, "data/protocols.yaml", cfg.Data.ProtocolsPath)
	assert.Equal(t, "data/pending_parameters", cfg.Data.PendingParametersDir)
	assert.Equal(t, "output/vehicle_params.db", cfg.Database.Path)
	assert.Empty(t, cfg.Schemas.ParametersSchemaPath, "embedded schemas by default")
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vparams.toml")

	content := `
[data]
parameters_path = "catalog/params.yaml"
protocols_path = "catalog/protos.yaml"

[database]
path = "artifacts/params.db"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "catalog/params.yaml", cfg.Data.ParametersPath)
	assert.Equal(t, "artifacts/params.db", cfg.Database.Path)
	// Unset keys fall back to defaults
	assert.Equal(t, "data/pending_protocols", cfg.Data.PendingProtocolsDir)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("VPARAMS_DATABASE_PATH", "/tmp/override.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Data.ParametersPath = "p.yaml"
	cfg.Data.ProtocolsPath = "q.yaml"
	cfg.Database.Path = "out.db"
	require.NoError(t, cfg.Validate())

	cfg.Data.ProtocolsPath = ""
	require.Error(t, cfg.Validate())
}
