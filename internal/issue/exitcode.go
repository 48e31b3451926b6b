// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/cclauss/python-launcher/internal/dispatch"
	"github.com/cclauss/python-launcher/internal/resolve"
	"github.com/cclauss/python-launcher/internal/venv"
	"github.com/cclauss/python-launcher/pkg/pyversion"
)

// Process exit codes. The numeric values follow sysexits.h where one fits.
const (
	ExitSuccess            = 0
	ExitFailure            = 1
	ExitIllegalArgument    = 2
	ExitMalformedSpecifier = 64
	ExitNoInterpreter      = 69
	ExitDispatchFailed     = 71
	ExitAmbiguousVenv      = 78
)

// Classify returns the catalog entry describing err, or 0 when none applies.
// An ActionableError's own Issue wins over anything in its chain.
func Classify(err error) Id {
	if err == nil {
		return 0
	}

	var ae *ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}

	switch {
	case errors.Is(err, resolve.ErrIllegalArgument):
		return IllegalArgumentId
	case errors.Is(err, pyversion.ErrMalformed):
		return MalformedSpecifierId
	case errors.Is(err, resolve.ErrNoInterpreterFound):
		return NoInterpreterFoundId
	case errors.Is(err, venv.ErrAmbiguous):
		return AmbiguousVenvId
	case errors.Is(err, dispatch.ErrDispatch):
		return DispatchFailedId
	default:
		return 0
	}
}

// ExitCodeFor maps err to the launcher's exit code: 0 for nil, the catalog
// entry's code when err is classified, ExitFailure otherwise.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if i := Get(Classify(err)); i != nil {
		return i.ExitCode()
	}
	return ExitFailure
}
