package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultWindowDays, cfg.WindowDays)
	assert.Equal(t, DefaultTimeZone, cfg.TimeZone)
	assert.Equal(t, DefaultTimeout, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ProviderDirect)
	assert.True(t, cfg.Instrumentation.Enabled)
	assert.Equal(t, "prometheus", cfg.Instrumentation.MetricsExporter)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NEXTCLASS_BACKEND_BASE_URL", "https://api.example.edu/api/google")
	t.Setenv("NEXTCLASS_WINDOW_DAYS", "14")
	t.Setenv("NEXTCLASS_TIME_ZONE", "America/Toronto")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.edu/api/google", cfg.BackendBaseURL)
	assert.Equal(t, 14, cfg.WindowDays)
	assert.Equal(t, "America/Toronto", cfg.TimeZone)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nextclass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backendBaseURL: https://campus.example.edu
windowDays: 3
logLevel: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://campus.example.edu", cfg.BackendBaseURL)
	assert.Equal(t, 3, cfg.WindowDays)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultTimeZone, cfg.TimeZone)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BackendBaseURL: "https://campus.example.edu",
			WindowDays:     7,
			TimeZone:       "America/Montreal",
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing backend url", func(t *testing.T) {
		cfg := valid()
		cfg.BackendBaseURL = ""
		require.ErrorIs(t, cfg.Validate(), ErrMissingBackendURL)
	})

	t.Run("provider direct needs no backend url", func(t *testing.T) {
		cfg := valid()
		cfg.BackendBaseURL = ""
		cfg.ProviderDirect = true
		require.NoError(t, cfg.Validate())
	})

	t.Run("non-positive window", func(t *testing.T) {
		cfg := valid()
		cfg.WindowDays = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("bad time zone", func(t *testing.T) {
		cfg := valid()
		cfg.TimeZone = "Mars/Olympus"
		require.Error(t, cfg.Validate())
	})
}
