// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"

	"github.com/cclauss/python-launcher/pkg/pyversion"
)

const (
	// KindUnconstrained selects the newest discovered interpreter.
	KindUnconstrained Kind = iota
	// KindExplicitFlag is a version flag on the command line.
	KindExplicitFlag
	// KindShebang is a version request from the script's "#!" line.
	KindShebang
	// KindVirtualEnvironment selects a virtual environment's interpreter.
	KindVirtualEnvironment
	// KindEnvironmentDefault is a PY_PYTHON* variable or the configured default.
	KindEnvironmentDefault
)

type (
	// Kind identifies the signal that drives a resolution.
	Kind int

	// Request is the single active signal of one invocation. Only the fields
	// relevant to Kind are set.
	Request struct {
		Kind Kind
		// Specifier filters discovered interpreters. Unused for KindVirtualEnvironment.
		Specifier pyversion.Specifier
		// Interpreter is the raw shebang interpreter token (KindShebang).
		Interpreter string
		// VenvPath is the virtual environment root (KindVirtualEnvironment).
		VenvPath string
		// Source names where an environment default came from: the variable
		// name, or "config" for the configuration file (KindEnvironmentDefault).
		Source string
	}
)

// String returns the signal name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindUnconstrained:
		return "none"
	case KindExplicitFlag:
		return "flag"
	case KindShebang:
		return "shebang"
	case KindVirtualEnvironment:
		return "venv"
	case KindEnvironmentDefault:
		return "env-default"
	default:
		return "unknown"
	}
}

// ExplicitFlag builds a request from a command-line version flag.
func ExplicitFlag(spec pyversion.Specifier) Request {
	return Request{Kind: KindExplicitFlag, Specifier: spec}
}

// Shebang builds a request from a shebang interpreter token.
func Shebang(interpreter string, spec pyversion.Specifier) Request {
	return Request{Kind: KindShebang, Specifier: spec, Interpreter: interpreter}
}

// VirtualEnvironment builds a request for the environment rooted at path.
func VirtualEnvironment(path string) Request {
	return Request{Kind: KindVirtualEnvironment, VenvPath: path}
}

// EnvironmentDefault builds a request from a default specifier and its source.
func EnvironmentDefault(source string, spec pyversion.Specifier) Request {
	return Request{Kind: KindEnvironmentDefault, Specifier: spec, Source: source}
}

// Unconstrained builds the request that accepts any interpreter.
func Unconstrained() Request {
	return Request{Kind: KindUnconstrained}
}

// String describes the request for logs and diagnostics.
func (r Request) String() string {
	switch r.Kind {
	case KindShebang:
		return fmt.Sprintf("shebang %s (%s)", r.Interpreter, r.Specifier)
	case KindVirtualEnvironment:
		return "venv " + r.VenvPath
	case KindEnvironmentDefault:
		return fmt.Sprintf("env-default %s=%s", r.Source, r.Specifier)
	case KindExplicitFlag:
		return "flag -" + r.Specifier.String()
	default:
		return "none"
	}
}
