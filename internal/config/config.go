// Package config loads the server configuration.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// pointed at by STRANGE_CONFIG, then STRANGE_-prefixed environment
// variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix for configuration environment variables,
	// e.g. STRANGE_DATA_DIR, STRANGE_LOG_LEVEL.
	EnvPrefix = "STRANGE_"

	// EnvConfigFile names the environment variable holding the path to
	// an optional YAML configuration file.
	EnvConfigFile = "STRANGE_CONFIG"
)

// Config holds the server configuration.
type Config struct {
	// DataDir is the directory holding the decision database.
	DataDir string `koanf:"data_dir"`

	// LogLevel controls log verbosity: debug, info, warn, or error.
	LogLevel string `koanf:"log_level"`
}

// Default returns the built-in configuration: data under ~/.strange,
// info-level logging. If the home directory cannot be resolved, the
// current directory is used.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:  filepath.Join(home, ".strange"),
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file
// named by STRANGE_CONFIG, and STRANGE_-prefixed environment variables.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	// STRANGE_DATA_DIR -> data_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return cfg, nil
}
