// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"slices"

	"github.com/cclauss/python-launcher/internal/resolve"
)

const (
	optNone launcherOption = iota
	optHelp
	optList
	optVersion
	optConfig
	optCompletion
)

// completionShells are the shells --completion can generate scripts for.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// launcherOption is a launcher-level action selected by the first argument.
type launcherOption int

// parseLauncherOption recognizes a launcher option in args[0]. Any other
// first argument (including version flags) means the arguments go to Python.
// value is the shell for --completion.
func parseLauncherOption(args []string) (opt launcherOption, value string, err error) {
	if len(args) == 0 {
		return optNone, "", nil
	}

	switch args[0] {
	case "-h", "--help":
		opt = optHelp
	case "--list":
		opt = optList
	case "--version":
		opt = optVersion
	case "--config":
		opt = optConfig
	case "--completion":
		if len(args) != 2 {
			return optNone, "", &resolve.IllegalArgumentError{
				Option: args[0],
				Args:   args[1:],
				Reason: "takes exactly one shell name",
			}
		}
		if !slices.Contains(completionShells, args[1]) {
			return optNone, "", &resolve.IllegalArgumentError{
				Option: args[0],
				Args:   args[1:],
				Reason: "supports bash, zsh, fish and powershell, got " + args[1],
			}
		}
		return optCompletion, args[1], nil
	default:
		return optNone, "", nil
	}

	if len(args) > 1 {
		return optNone, "", &resolve.IllegalArgumentError{Option: args[0], Args: args[1:]}
	}
	return opt, "", nil
}
