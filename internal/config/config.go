// Package config loads and validates sweep configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrEmptyDir        = errors.New("directory cannot be empty")
	ErrInvalidTimeout  = errors.New("timeout must be positive")
	ErrInvalidEndpoint = errors.New("endpoint must be an http(s) URL")
)

// Defaults mirror the conventional layout: three directories beside the
// working directory and a local GROBID instance.
const (
	DefaultSource    = "source"
	DefaultTEIDir    = "tei"
	DefaultOutput    = "output"
	DefaultGrobidURL = "http://localhost:8070"
	DefaultTimeout   = 120 // seconds
)

// Config holds all configuration for the source -> TEI -> ODT sweep.
type Config struct {
	Source         string `yaml:"source"`         // input PDFs, searched recursively
	TEIDir         string `yaml:"tei"`            // intermediate TEI files
	Output         string `yaml:"output"`         // rendered ODT files
	GrobidURL      string `yaml:"grobidURL"`      // extraction service base URL
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // extraction request timeout
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Source:         DefaultSource,
		TEIDir:         DefaultTEIDir,
		Output:         DefaultOutput,
		GrobidURL:      DefaultGrobidURL,
		TimeoutSeconds: DefaultTimeout,
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that directories are set, the timeout is positive, and
// the endpoint is an http(s) URL.
func (c *Config) Validate() error {
	for _, dir := range []struct {
		field string
		value string
	}{
		{"source", c.Source},
		{"tei", c.TEIDir},
		{"output", c.Output},
	} {
		if strings.TrimSpace(dir.value) == "" {
			return fmt.Errorf("%w: %s", ErrEmptyDir, dir.field)
		}
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, c.TimeoutSeconds)
	}
	if !strings.HasPrefix(c.GrobidURL, "http://") && !strings.HasPrefix(c.GrobidURL, "https://") {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.GrobidURL)
	}
	return nil
}
