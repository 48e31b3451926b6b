// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cclauss/python-launcher/internal/venv"
	"github.com/cclauss/python-launcher/pkg/platform"
	"github.com/cclauss/python-launcher/pkg/pyversion"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the launcher configuration.
	Config struct {
		// Default is the default version specifier, consulted after PY_PYTHON.
		Default string `json:"default" mapstructure:"default" toml:"default,omitempty"`
		// Verbose enables debug logging.
		Verbose   bool            `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		Venv      VenvConfig      `json:"venv" mapstructure:"venv" toml:"venv"`
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery" toml:"discovery"`

		// Source is the file the configuration was read from, "" for defaults.
		Source string `json:"-" mapstructure:"-" toml:"-"`
	}

	// VenvConfig controls virtual environment detection.
	VenvConfig struct {
		DirName              string `json:"dir_name" mapstructure:"dir_name" toml:"dir_name"`
		SearchParents        bool   `json:"search_parents" mapstructure:"search_parents" toml:"search_parents"`
		PreferWhenCompatible bool   `json:"prefer_when_compatible" mapstructure:"prefer_when_compatible" toml:"prefer_when_compatible"`
	}

	// DiscoveryConfig controls where interpreters are looked for beyond PATH.
	DiscoveryConfig struct {
		FrameworkDir    string `json:"framework_dir" mapstructure:"framework_dir" toml:"framework_dir,omitempty"`
		FrameworkAlways bool   `json:"framework_always" mapstructure:"framework_always" toml:"framework_always"`
	}

	// InvalidConfigError lists every field that failed validation.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Venv: VenvConfig{
			DirName:              venv.DefaultDirName,
			SearchParents:        true,
			PreferWhenCompatible: true,
		},
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Default != "" {
		if _, err := pyversion.Parse(c.Default); err != nil {
			errs = append(errs, fmt.Errorf("default: %w", err))
		}
	}
	if name := c.Venv.DirName; name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') {
		errs = append(errs, fmt.Errorf("venv.dir_name: %q is not a directory name", name))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// EffectiveFrameworkDir returns the directory probed after the search path
// on goos. A configured directory replaces the platform one, and is only
// used off macOS when FrameworkAlways is set.
func (d DiscoveryConfig) EffectiveFrameworkDir(goos string) string {
	if goos != platform.Darwin && !d.FrameworkAlways {
		return ""
	}
	if d.FrameworkDir != "" {
		return d.FrameworkDir
	}
	return platform.FrameworkDir(goos)
}
