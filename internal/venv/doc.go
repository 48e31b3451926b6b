// SPDX-License-Identifier: MPL-2.0

// Package venv detects the virtual environment that should take precedence
// over discovered interpreters.
//
// An activated environment is announced by VIRTUAL_ENV. Otherwise the working
// directory (and, by default, each of its parents) is searched for a ".venv"
// directory containing a pyvenv.cfg marker. Detection only reads the
// filesystem; nothing is executed.
package venv
