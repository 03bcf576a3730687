// Package config loads the itemreport configuration file.
//
// The file is optional. FindConfigFile looks for it in this order:
//  1. the path given with --config
//  2. .itemreport.yaml in the current directory
//  3. itemreport/config.yaml under the XDG config home
//
// Values from the file are defaults; command line flags override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PiotrMackowski/itemreport/internal/logger"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the XDG config subdirectory.
	AppName = "itemreport"
	// LocalConfigFile is looked up in the current directory.
	LocalConfigFile = ".itemreport.yaml"
)

// Config is the top-level configuration file.
type Config struct {
	// Log configures the zap logger.
	Log logger.Config `yaml:"log"`
	// Rules is the path of a visibility rules file. Empty uses the built-in rules.
	Rules string `yaml:"rules"`
	// Escape enables CSV quoting and HTML escaping of field values.
	Escape bool `yaml:"escape"`
	// MetricsFile, when set, receives Prometheus metrics after each run.
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{Log: logger.DefaultConfig()}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	return nil
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// FindConfigFile returns the config file to load, or "" if there is none.
// An explicit path is returned as-is when it exists.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}

	if p := DefaultPath(); fileExists(p) {
		return p
	}
	return ""
}

// Load reads the config file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve finds and loads the config file. A missing explicit file is an
// error; a missing implicit one yields Default.
func Resolve(explicit string) (*Config, error) {
	path := FindConfigFile(explicit)
	if path == "" {
		if explicit != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return Default(), nil
	}
	return Load(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
