package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{"HOST", "PORT", "LOG_LEVEL", "LOG_FORMAT", "WAVE_NAMES", "MAX_UPLOAD_BYTES"} {
		t.Setenv(Prefix+"_"+name, "")
		os.Unsetenv(Prefix + "_" + name)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func writeDefaultWaveNames(t *testing.T) string {
	t.Helper()
	dir, err := os.UserConfigDir()
	require.NoError(t, err)
	path := filepath.Join(dir, "k4tool", "waves.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("97: SAW 1\n"), 0o644))
	return path
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.WaveNames)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("K4TOOL_PORT", "9090")
	t.Setenv("K4TOOL_LOG_FORMAT", "json")
	t.Setenv("K4TOOL_WAVE_NAMES", "/tmp/waves.yaml")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/tmp/waves.yaml", cfg.WaveNames)
}

func TestLoadFromEnvInvalid(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("K4TOOL_PORT", "not-a-port")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnvVars(t)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Port = 70000
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.LogFormat = "xml"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MaxUploadBytes = 0
	assert.Error(t, bad.Validate())
}

func TestLoadDotEnvMissing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadWithDotEnv(t *testing.T) {
	clearEnvVars(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("K4TOOL_PORT=7070\nK4TOOL_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("K4TOOL_PORT")
		os.Unsetenv("K4TOOL_LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDefaultWaveNames(t *testing.T) {
	clearEnvVars(t)
	envPath := filepath.Join(t.TempDir(), "missing.env")

	cfg, err := Load(envPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.WaveNames)

	path := writeDefaultWaveNames(t)
	assert.Equal(t, path, DefaultWaveNamesFile())

	cfg, err = Load(envPath)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.WaveNames)

	t.Setenv("K4TOOL_WAVE_NAMES", "custom.yaml")
	cfg, err = Load(envPath)
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", cfg.WaveNames)
}
