// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/cclauss/python-launcher/internal/resolve"

	"github.com/charmbracelet/glamour"
)

const helpWrapWidth = 80

const launcherHelp = `# Python Launcher %s

Usage: ` + "`py [launcher-args] [python-args]`" + `

## Launcher arguments

- ` + "`-h`, `--help`" + `: this output, followed by Python's own help
- ` + "`--list`" + `: list the interpreters found, newest first
- ` + "`--version`" + `: print the launcher version
- ` + "`--config`" + `: print the effective configuration
- ` + "`--completion SHELL`" + `: print a completion script (bash, zsh, fish, powershell)
- ` + "`-X`" + `: launch the newest Python X.Y
- ` + "`-X.Y`" + `: launch Python X.Y
- ` + "`-X.Y-32`, `-X.Y-64`, `--64`" + `: also select the architecture

## Selection order

1. A version flag as the first argument
2. The script's ` + "`#!`" + ` line (` + "`python3.11`, `/usr/bin/env python3`, `py -3`" + `)
3. The active virtual environment (` + "`VIRTUAL_ENV`" + `, then ` + "`.venv`" + ` here or above)
4. ` + "`PY_PYTHON`" + ` and ` + "`PY_PYTHON<major>`" + `, then the configured default
5. The newest interpreter on ` + "`PATH`" + `

## Environment

- ` + "`PY_PYTHON`, `PY_PYTHON3`" + `: default versions, e.g. ` + "`3.12`" + `
- ` + "`PYLAUNCH_DEBUG`" + `: log each step to stderr
- ` + "`PY_LAUNCHER_CONFIG`" + `: configuration file to use
`

// help prints the launcher's help, then executes the newest interpreter
// with -h so Python's help follows.
func (a *App) help(inv *invocation) error {
	sel, selErr := inv.resolver.Select(resolve.Unconstrained(), []string{"-h"})

	md := fmt.Sprintf(launcherHelp, getVersionString())
	if selErr == nil {
		md += fmt.Sprintf("\nThe following help text is from `%s`:\n", sel.Path)
	}
	fmt.Fprint(a.stdout, a.renderMarkdown(md, inv))

	if selErr != nil {
		return selErr
	}
	return a.dispatcher(inv).Dispatch(sel.Path, sel.Args, inv.snapshot.Environ())
}

// renderMarkdown styles md for a terminal, or returns it unchanged when
// stdout is not one or rendering fails.
func (a *App) renderMarkdown(md string, inv *invocation) string {
	if !a.IsTerminal(a.stdout) {
		return md
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(helpWrapWidth),
	)
	if err != nil {
		inv.logger.Debug("markdown renderer unavailable", "error", err)
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		inv.logger.Debug("failed to render help", "error", err)
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}
