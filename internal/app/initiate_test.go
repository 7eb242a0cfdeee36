package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgconfig"
)

func TestConfigOptionsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: test\n"), 0o600))

	cfg, err := pkgconfig.NewViper(path, configOptions()...)
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.GetFloat("llm.temperature"))
	assert.Equal(t, "groq", cfg.GetString("llm.provider"))
	assert.Equal(t, "none", cfg.GetString("dataset.imputation"))
	assert.Equal(t, ":8000", cfg.GetString("server.address.http"))
}

func TestShippedConfig(t *testing.T) {
	t.Setenv("DATASET_PATH", "")
	t.Setenv("DATA_FILE", "")

	cfg, err := pkgconfig.NewViper(filepath.Join("..", "..", "config", "config.yaml"), configOptions()...)
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.GetFloat("llm.temperature"))
	assert.Equal(t, "data/vaccine_market_dataset.csv", cfg.GetString("dataset.path"))
}
