// SPDX-License-Identifier: MPL-2.0

// Package cmd is the py command line: it loads configuration, resolves the
// interpreter for the invocation and replaces itself with it. A handful of
// launcher options (--list, --help, --version, --config, --completion) are
// handled here; every other argument belongs to Python.
package cmd
