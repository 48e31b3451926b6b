// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// ErrDispatch is the sentinel error wrapped by Error.
var ErrDispatch = errors.New("failed to execute interpreter")

type (
	// ExecFunc replaces the current process image. It only returns on failure.
	ExecFunc func(path string, argv, environ []string) error

	// Error reports an interpreter that could not be executed.
	Error struct {
		Path  string
		Cause error
	}

	// Dispatcher hands control to an interpreter.
	Dispatcher struct {
		// Exec defaults to unix.Exec.
		Exec ExecFunc
		// Logger receives debug output; nil discards it.
		Logger *log.Logger
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrDispatch, e.Path, e.Cause)
}

// Unwrap returns both ErrDispatch and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{ErrDispatch, e.Cause}
}

// Dispatch executes path with args and environ. The interpreter sees path as
// its argv[0] followed by args unchanged, and inherits environ as is.
func (d Dispatcher) Dispatch(path string, args, environ []string) error {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, path)
	argv = append(argv, args...)

	d.logger().Debug("executing interpreter", "path", path, "args", args)

	exec := d.Exec
	if exec == nil {
		exec = unix.Exec
	}
	if err := exec(path, argv, slices.Clone(environ)); err != nil {
		return &Error{Path: path, Cause: err}
	}
	return nil
}

func (d Dispatcher) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}
