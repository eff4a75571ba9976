// Package config loads the extract-demo settings from TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
)

const (
	// PathEnv names the environment variable holding the config path.
	PathEnv = "EXTRACT_DEMO_CONFIG"

	// DefaultPath is used when PathEnv is unset.
	DefaultPath = "extract-demo.toml"
)

// Config is the top-level demo configuration.
type Config struct {
	Env       string    `toml:"env"`
	Async     bool      `toml:"async"`
	Namespace string    `toml:"namespace"`
	Log       Log       `toml:"log"`
	Requests  []Request `toml:"request"`
}

// Log configures the demo logger. File is optional; when set, logs are
// also written there with rotation.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Request is one request to dispatch.
type Request struct {
	Payload string            `toml:"payload"`
	Fields  map[string]string `toml:"fields"`
}

// Default returns the configuration used when no file exists: the two
// reference payloads dispatched synchronously at info level.
func Default() Config {
	return Config{
		Env:       "dev",
		Namespace: "extract_demo",
		Log:       Log{Level: "info"},
		Requests: []Request{
			{Payload: "1234"},
			{Payload: "333a3"},
		},
	}
}

// Validate checks values that decode cleanly but are unusable.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if len(c.Requests) == 0 {
		return errors.New("at least one [[request]] is required")
	}
	return nil
}

// Load reads path over Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	// Requests from the file replace the defaults rather than append.
	cfg.Requests = nil
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

// PathFromEnv returns the config path from PathEnv, or DefaultPath.
func PathFromEnv() string {
	if v := strings.TrimSpace(os.Getenv(PathEnv)); v != "" {
		return v
	}
	return DefaultPath
}
