// Package config loads the blink configuration file: the ordered registry of
// search locations plus pass-through flags for the external fd and fzf tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the parsed blink configuration.
type Config struct {
	// Locations is the ordered registry of search locations. The first
	// entry is the default.
	Locations Registry `yaml:"locations"`

	// FdFlags are extra flags appended to every fd invocation.
	FdFlags []string `yaml:"fd_flags"`

	// FzfFlags are extra flags appended to every fzf invocation.
	FzfFlags []string `yaml:"fzf_flags"`

	// LogLevel sets the debug log verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// FirstRun is true when no config file existed yet. The CLI layer uses
	// it to print setup guidance instead of failing.
	FirstRun bool `yaml:"-"`
}

// Load reads and parses the config file at the default path.
//
// A missing file is the documented first-run case, not an error: it yields an
// empty registry with FirstRun set. A file that exists but cannot be read or
// parsed fails the whole load; there is no partial registry.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads and parses the config file at the given path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{LogLevel: "info"}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.FirstRun = true
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
