// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cclauss/python-launcher/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the configuration directory name.
	AppName = "py"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ExtCUE is the extension of CUE config files, preferred when both exist.
	ExtCUE = "cue"
	// ExtTOML is the extension of TOML config files.
	ExtTOML = "toml"
	// EnvConfigFile names the variable holding an explicit config file path.
	EnvConfigFile = "PY_LAUNCHER_CONFIG"
	// MaxFileSize caps the size of a config file.
	MaxFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the launcher configuration directory:
// $XDG_CONFIG_HOME/py, or ~/.config/py when XDG_CONFIG_HOME is unset or
// relative.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir(getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" && filepath.IsAbs(dir) {
		return filepath.Join(dir, AppName), nil
	}
	home := getenv("HOME")
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
	}
	return filepath.Join(home, ".config", AppName), nil
}

// loadWithOptions reads, validates and decodes the configuration.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("default", defaults.Default)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("venv.dir_name", defaults.Venv.DirName)
	v.SetDefault("venv.search_parents", defaults.Venv.SearchParents)
	v.SetDefault("venv.prefer_when_compatible", defaults.Venv.PreferWhenCompatible)
	v.SetDefault("discovery.framework_dir", defaults.Discovery.FrameworkDir)
	v.SetDefault("discovery.framework_always", defaults.Discovery.FrameworkAlways)

	path, explicit, err := findConfigFile(opts)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := loadFileIntoViper(v, path); err != nil {
			suggestion := "Check that the file contains valid CUE syntax"
			if filepath.Ext(path) == "."+ExtTOML {
				suggestion = "Check that the file contains valid TOML syntax"
			}
			return nil, issue.NewErrorContext().
				WithIssue(issue.ConfigLoadFailedId).
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion(suggestion).
				WithSuggestion("Run 'py --config' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	} else if explicit != "" {
		return nil, issue.NewErrorContext().
			WithIssue(issue.ConfigLoadFailedId).
			WithOperation("load configuration").
			WithResource(explicit).
			WithSuggestion("Verify the file path is correct").
			WithSuggestionf("Unset %s to use the default location", EnvConfigFile).
			Wrap(fmt.Errorf("config file not found: %s", explicit)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithIssue(issue.ConfigLoadFailedId).
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Use a version such as \"3\" or \"3.12\" for default").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// findConfigFile returns the file to load, "" when none exists. explicit is
// the requested path when one was given; it is returned even when the file
// does not exist so the caller can report it.
func findConfigFile(opts LoadOptions) (path, explicit string, err error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	explicit = opts.ConfigFilePath
	if explicit == "" {
		explicit = getenv(EnvConfigFile)
	}
	if explicit != "" {
		if fileExists(explicit) {
			return explicit, explicit, nil
		}
		return "", explicit, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		if dir, err = ConfigDir(getenv); err != nil {
			return "", "", err
		}
	}
	for _, ext := range []string{ExtCUE, ExtTOML} {
		candidate := filepath.Join(dir, ConfigFileName+"."+ext)
		if fileExists(candidate) {
			return candidate, "", nil
		}
	}
	return "", "", nil
}

// loadFileIntoViper validates a CUE or TOML file against the #Config schema
// and merges its contents into Viper.
//
// Note: TOML documents are decoded first and then encoded as CUE values, so
// both formats go through the same schema and error formatting.
func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, MaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	var userValue cue.Value
	switch ext := strings.TrimPrefix(filepath.Ext(path), "."); ext {
	case ExtTOML:
		doc, err := decodeTOML(data, path)
		if err != nil {
			return err
		}
		userValue = ctx.Encode(doc)
	default:
		userValue = ctx.CompileBytes(data, cue.Filename(path))
	}
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, path string) (map[string]any, error) {
	doc := map[string]any{}
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", path, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Marshal renders cfg as a TOML document.
func Marshal(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(data), nil
}
