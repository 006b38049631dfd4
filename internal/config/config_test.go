package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api/", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.InDelta(t, 10.0, cfg.API.RatePerSec, 0.001)
	assert.Equal(t, 8080, cfg.Viewer.Port)
	assert.Equal(t, 64, cfg.Viewer.OverlayCacheMax)
	assert.Equal(t, 300, cfg.Viewer.OverlayTTLSecs)
	assert.False(t, cfg.Viewer.Warm)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Session.Path)
	assert.NotEmpty(t, cfg.Cache.Path)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	yaml := `
api:
  base_url: https://maps.example.com/api/
viewer:
  port: 9090
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://maps.example.com/api/", cfg.API.BaseURL)
	assert.Equal(t, 9090, cfg.Viewer.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("SETTLEMAP_API_BASE_URL", "https://env.example.com/api/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/api/", cfg.API.BaseURL)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
