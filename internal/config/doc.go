// SPDX-License-Identifier: MPL-2.0

// Package config handles launcher configuration using Viper.
//
// Configuration is read from $PY_LAUNCHER_CONFIG when set, otherwise from
// config.cue or config.toml in $XDG_CONFIG_HOME/py (defaulting to
// ~/.config/py). Both formats are validated against the embedded CUE schema
// (config_schema.cue) before being merged over the defaults. A missing file
// is not an error.
package config
