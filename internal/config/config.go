// Package config loads and validates the optional vigil YAML config file.
// The file tunes execution; every value has a flag-level equivalent and
// flags win over file values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds tunable execution settings.
type Config struct {
	// Concurrency is the engine worker pool size. Zero = engine default.
	Concurrency int `yaml:"concurrency" validate:"min=0,max=64"`

	// CheckTimeoutSeconds is the per-check deadline. Zero = engine default.
	CheckTimeoutSeconds int `yaml:"check_timeout_seconds" validate:"min=0,max=300"`

	// Categories is the default category selection when --categories is
	// not given. Empty = all.
	Categories string `yaml:"categories"`

	// NoColor disables colored text output.
	NoColor bool `yaml:"no_color"`
}

// Default returns the zero configuration: engine defaults, all categories.
func Default() Config {
	return Config{}
}

// CheckTimeout returns the configured per-check deadline as a duration.
func (c Config) CheckTimeout() time.Duration {
	return time.Duration(c.CheckTimeoutSeconds) * time.Second
}

// Load reads and validates a config file. Any problem — unreadable file,
// bad YAML, out-of-range values — is a configuration error the caller must
// surface before any check runs.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}
