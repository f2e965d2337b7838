// Package config loads k4tool settings from the environment and .env files
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. K4TOOL_PORT
const Prefix = "K4TOOL"

// Defaults, kept in sync with the struct tags below
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "pretty"
	DefaultMaxUploadBytes = 1 << 20
)

// Config holds the settings shared by the CLI and the API server
type Config struct {
	// Host is the API server bind address.
	// Env: K4TOOL_HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the API server port.
	// Env: K4TOOL_PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// LogLevel is one of debug, info, warn, error.
	// Env: K4TOOL_LOG_LEVEL (default: info)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is pretty or json.
	// Env: K4TOOL_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// WaveNames is an optional YAML file mapping wave numbers to names.
	// Env: K4TOOL_WAVE_NAMES (default: DefaultWaveNamesFile, if present)
	WaveNames string `envconfig:"WAVE_NAMES"`

	// MaxUploadBytes limits bank uploads to the API.
	// Env: K4TOOL_MAX_UPLOAD_BYTES (default: 1048576)
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"1048576"`
}

// Addr returns the host:port the API server listens on
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks values envconfig cannot
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch strings.ToLower(c.LogFormat) {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid log format %q (want pretty or json)", c.LogFormat)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid upload limit %d", c.MaxUploadBytes)
	}
	return nil
}

// LoadFromEnv reads the K4TOOL_ environment variables
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// DefaultWaveNamesFile returns the per-user wave names file,
// e.g. ~/.config/k4tool/waves.yaml, or "" when it does not exist
func DefaultWaveNamesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "k4tool", "waves.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Load reads the optional .env file, then the environment, and validates the result
func Load(envPath string) (Config, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	cfg, err := LoadFromEnv()
	if err != nil {
		return Config{}, err
	}
	if cfg.WaveNames == "" {
		cfg.WaveNames = DefaultWaveNamesFile()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
