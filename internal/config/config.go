// Package config handles loading and validating the slowtop configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "slowtop.yaml"

// Config holds the resolved settings for one run.
type Config struct {
	ReportSize     int     `yaml:"report_size"`
	ReportDir      string  `yaml:"report_dir"`
	LogDir         string  `yaml:"log_dir"`
	ErrorThreshold float64 `yaml:"error_threshold"`
	Journal        string  `yaml:"journal"` // run journal path; empty = stderr
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ReportSize:     1000,
		ReportDir:      "./reports",
		LogDir:         "./logs",
		ErrorThreshold: 0.1,
	}
}

// Load reads a YAML config file over the defaults. A missing file is fine
// and yields the defaults; a present but unreadable or invalid file is an
// error. The result is not validated here, since CLI flags may still
// override fields.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unusable settings before any log I/O happens.
func (c *Config) Validate() error {
	if c.ReportSize < 1 {
		return fmt.Errorf("report_size must be positive, got %d", c.ReportSize)
	}
	if c.ErrorThreshold < 0 || c.ErrorThreshold > 1 {
		return fmt.Errorf("error_threshold must be in [0, 1], got %g", c.ErrorThreshold)
	}
	if c.LogDir == "" {
		return fmt.Errorf("log_dir must not be empty")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report_dir must not be empty")
	}
	return nil
}
