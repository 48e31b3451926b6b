// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"

	"github.com/cclauss/python-launcher/pkg/pyversion"
)

// ErrNoInterpreterFound is the sentinel error wrapped by NoInterpreterFoundError.
var ErrNoInterpreterFound = errors.New("no interpreter found")

// ErrIllegalArgument is the sentinel error wrapped by IllegalArgumentError.
var ErrIllegalArgument = errors.New("illegal argument")

type (
	// NoInterpreterFoundError reports a valid request that nothing satisfied.
	NoInterpreterFoundError struct {
		Specifier pyversion.Specifier
		Signal    Kind
	}

	// SpecifierError reports a malformed version token and the signal that
	// supplied it. It unwraps to the *pyversion.MalformedError.
	SpecifierError struct {
		Signal Kind
		// Source is the flag, variable name, or "config" holding the token.
		Source string
		Err    error
	}

	// IllegalArgumentError reports a launcher option used with arguments it
	// does not accept, such as "py --list extra".
	IllegalArgumentError struct {
		Option string
		Args   []string
		// Reason replaces the default "takes no arguments" explanation.
		Reason string
	}
)

// Error implements the error interface.
func (e *NoInterpreterFoundError) Error() string {
	if e.Specifier.IsAny() {
		return fmt.Sprintf("no Python interpreter found (signal: %s)", e.Signal)
	}
	return fmt.Sprintf("no Python interpreter found for version %s (signal: %s)", e.Specifier, e.Signal)
}

// Unwrap returns ErrNoInterpreterFound so callers can use errors.Is.
func (e *NoInterpreterFoundError) Unwrap() error { return ErrNoInterpreterFound }

// Error implements the error interface.
func (e *SpecifierError) Error() string {
	return fmt.Sprintf("%s (signal: %s, from %s)", e.Err, e.Signal, e.Source)
}

// Unwrap returns the parse error; errors.Is(err, pyversion.ErrMalformed) holds.
func (e *SpecifierError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *IllegalArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s %s", ErrIllegalArgument, e.Option, e.Reason)
	}
	return fmt.Sprintf("%s: %s takes no arguments, got %q", ErrIllegalArgument, e.Option, e.Args)
}

// Unwrap returns ErrIllegalArgument so callers can use errors.Is.
func (e *IllegalArgumentError) Unwrap() error { return ErrIllegalArgument }
