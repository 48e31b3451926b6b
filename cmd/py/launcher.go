// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/cclauss/python-launcher/internal/config"
	"github.com/cclauss/python-launcher/internal/dispatch"
	"github.com/cclauss/python-launcher/internal/issue"
	"github.com/cclauss/python-launcher/internal/resolve"
	"github.com/cclauss/python-launcher/internal/venv"
	"github.com/cclauss/python-launcher/pkg/pyversion"

	"github.com/spf13/cobra"
)

// Run handles one invocation. On a successful launch it does not return.
func (a *App) Run(ctx context.Context, root *cobra.Command, args []string) error {
	opt, shell, err := parseLauncherOption(args)
	if err != nil {
		return explain(err)
	}

	switch opt {
	case optVersion:
		fmt.Fprintln(a.stdout, "py", getVersionString())
		return nil
	case optCompletion:
		return writeCompletion(root, shell, a.stdout)
	}

	inv, err := a.prepare(ctx, args)
	if err != nil {
		return err
	}

	switch opt {
	case optHelp:
		return explain(a.help(inv))
	case optList:
		return explain(a.list(inv))
	case optConfig:
		return a.showConfig(inv)
	default:
		return explain(a.launch(inv))
	}
}

// launch resolves the interpreter for the invocation and executes it.
func (a *App) launch(inv *invocation) error {
	inv.logger.Debug("resolving interpreter", "args", inv.snapshot.Args())
	sel, err := inv.resolver.Resolve()
	if err != nil {
		return err
	}
	inv.logger.Debug("launching", "path", sel.Path, "request", sel.Request)
	return a.dispatcher(inv).Dispatch(sel.Path, sel.Args, inv.snapshot.Environ())
}

func (a *App) showConfig(inv *invocation) error {
	out, err := config.Marshal(inv.config)
	if err != nil {
		return err
	}
	source := inv.config.Source
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(a.stdout, "# %s\n%s", source, out)
	return nil
}

// explain attaches remediation hints to launcher errors. The cause is kept
// in the chain so exit codes still follow it.
func explain(err error) error {
	if err == nil {
		return nil
	}

	var (
		illegal    *resolve.IllegalArgumentError
		specErr    *resolve.SpecifierError
		malformed  *pyversion.MalformedError
		notFound   *resolve.NoInterpreterFoundError
		ambiguous  *venv.AmbiguousError
		dispatched *dispatch.Error
	)
	ctx := issue.NewErrorContext().Wrap(err)
	switch {
	case errors.As(err, &illegal):
		ctx.WithOperation("parse launcher options").
			WithResource(illegal.Option).
			WithSuggestionf("Run '%s' on its own", illegal.Option).
			WithSuggestion("To pass the option to Python, select a version first, e.g. 'py -3 --help'")
	case errors.As(err, &specErr):
		ctx.WithOperation("parse version").
			WithResource(specErr.Source).
			WithSuggestion("Use a version such as 3, 3.12 or 3.12-64")
		if specErr.Signal == resolve.KindEnvironmentDefault {
			ctx.WithSuggestionf("Fix or unset %s", specErr.Source)
		}
	case errors.As(err, &malformed):
		ctx.WithOperation("parse version").
			WithResource(malformed.Token).
			WithSuggestion("Use a version such as 3, 3.12 or 3.12-64")
	case errors.As(err, &notFound):
		resource := "any version"
		if !notFound.Specifier.IsAny() {
			resource = "Python " + notFound.Specifier.String()
		}
		ctx.WithOperation("find a Python interpreter").
			WithResource(resource).
			WithSuggestion("Run 'py --list' to see the interpreters on your PATH").
			WithSuggestionf("Set %s=1 to see every directory searched", DebugEnvVar)
	case errors.As(err, &ambiguous):
		ctx.WithOperation("use virtual environment").
			WithResource(ambiguous.Root).
			WithSuggestion("Recreate it with 'python3 -m venv --clear " + ambiguous.Root + "'")
		if ambiguous.Source == venv.SourceActivated {
			ctx.WithSuggestionf("Or deactivate it (unset %s)", venv.EnvVar)
		}
	case errors.As(err, &dispatched):
		ctx.WithOperation("execute interpreter").
			WithResource(dispatched.Path).
			WithSuggestion("Check that the file exists and is executable")
	default:
		return err
	}
	return ctx.BuildError()
}
