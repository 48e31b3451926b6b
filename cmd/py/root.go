// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cclauss/python-launcher/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// issueStyle is the glamour style for issue explanations in verbose mode.
const issueStyle = "dark"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the py command. Flag parsing is disabled: every
// argument reaches App.Run untouched.
func NewRootCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "py [-X[.Y][-ARCH]] [python-args...]",
		Short: "Launch the right Python interpreter",
		Long: TitleStyle.Render("py") + SubtitleStyle.Render(" - the Python launcher for Unix") + `

Selects a Python interpreter from a version flag, the script's shebang,
the active virtual environment or PY_PYTHON, and runs it with the
remaining arguments. Run 'py --help' for details.`,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		ValidArgsFunction:  app.completeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Run(cmd.Context(), cmd.Root(), args); err != nil {
				return &ExitError{Code: issue.ExitCodeFor(err), Err: err}
			}
			return nil
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the launcher and exits with its code. It only returns when
// the interpreter could not be started.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// fang's version flag, completion and man page commands would shadow
	// arguments meant for Python.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithoutVersion(),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
		fang.WithErrorHandler(app.handleError),
		fang.WithNotifySignal(os.Interrupt),
	)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return issue.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return issue.ExitCodeFor(err)
}

// handleError prints err to w. In verbose mode on a terminal the matching
// issue explanation follows.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("error:")+" "+formatErrorForDisplay(err, a.verbose))

	if !a.verbose || !a.IsTerminal(w) {
		return
	}
	if i := issue.Get(issue.Classify(err)); i != nil {
		if rendered, renderErr := i.Render(issueStyle); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
