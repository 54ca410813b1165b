package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/internal/config"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, "amazon.nova-micro-v1:0", cfg.Bedrock.ModelID)
	assert.Equal(t, 1000, cfg.Bedrock.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Bedrock.Temperature, 1e-9)
	assert.InDelta(t, 0.9, cfg.Bedrock.TopP, 1e-9)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("CLUBPULSE_DATA_DIR", "/var/lib/clubpulse")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  data_dir: ${CLUBPULSE_DATA_DIR}\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/clubpulse", cfg.Storage.DataDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Bedrock.Enabled)
	assert.Equal(t, "us-east-1", cfg.Bedrock.Region)
}
