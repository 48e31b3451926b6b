// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Issue identifiers. The zero Id means "no catalog entry".
const (
	IllegalArgumentId Id = iota + 1
	MalformedSpecifierId
	NoInterpreterFoundId
	AmbiguousVenvId
	DispatchFailedId
	ConfigLoadFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown explanation of an issue.
	MarkdownMsg string

	// HttpLink is an external reference shown under "See also".
	HttpLink string

	// Issue is one failure kind: its exit code and remediation text.
	Issue struct {
		id       Id
		exitCode int
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	illegalArgumentIssue = &Issue{
		id:       IllegalArgumentId,
		exitCode: ExitIllegalArgument,
		mdMsg: `
# Unexpected arguments!

The launcher options ` + "`-h`, `--help`, `--list`, `--version` and `--config`" + ` must be
used on their own.

## Things you can try:
- Drop the extra arguments:
~~~
$ py --list
~~~
- To pass the option to Python instead, select a version first:
~~~
$ py -3 --help
~~~`,
	}

	malformedSpecifierIssue = &Issue{
		id:       MalformedSpecifierId,
		exitCode: ExitMalformedSpecifier,
		mdMsg: `
# Malformed version!

A version request could not be parsed. Versions are written as ` + "`X`, `X.Y`, `X.Y-32`/`X.Y-64`" + `, or
an architecture alone (` + "`-64`" + `).

## Where versions come from:
1. A ` + "`-X.Y`" + ` flag as the first argument
2. ` + "`PY_PYTHON`" + ` and ` + "`PY_PYTHON<major>`" + ` environment variables
3. The ` + "`default`" + ` key of the configuration file

## Things you can try:
~~~
$ py -3.12 script.py
$ export PY_PYTHON=3.12
~~~`,
	}

	noInterpreterFoundIssue = &Issue{
		id:       NoInterpreterFoundId,
		exitCode: ExitNoInterpreter,
		mdMsg: `
# No matching Python found!

No executable named ` + "`pythonX.Y`" + ` on your PATH (or in the framework directory)
satisfies the requested version.

## Things you can try:
- See which interpreters were found:
~~~
$ py --list
~~~
- Install the requested version, or request one that is installed
- Run with ` + "`PYLAUNCH_DEBUG=1`" + ` to see every directory searched`,
		extLinks: []HttpLink{"https://www.python.org/downloads/"},
	}

	ambiguousVenvIssue = &Issue{
		id:       AmbiguousVenvId,
		exitCode: ExitAmbiguousVenv,
		mdMsg: `
# Unusable virtual environment!

A virtual environment is active (` + "`VIRTUAL_ENV`" + ` or a ` + "`.venv`" + ` directory) but it has no
readable ` + "`pyvenv.cfg`" + ` or no ` + "`bin/python`" + `.

## Things you can try:
- Deactivate it or unset ` + "`VIRTUAL_ENV`" + `:
~~~
$ deactivate
~~~
- Recreate the environment:
~~~
$ python3 -m venv --clear .venv
~~~
- Request a version explicitly to bypass it:
~~~
$ py -3 script.py
~~~`,
		extLinks: []HttpLink{"https://docs.python.org/3/library/venv.html"},
	}

	dispatchFailedIssue = &Issue{
		id:       DispatchFailedId,
		exitCode: ExitDispatchFailed,
		mdMsg: `
# Could not start Python!

The interpreter was selected but executing it failed.

## Common causes:
- The file was removed or replaced after discovery
- The file is not executable or is a broken symlink
- The interpreter was built for a different architecture`,
	}

	configLoadFailedIssue = &Issue{
		id:       ConfigLoadFailedId,
		exitCode: ExitFailure,
		mdMsg: `
# Invalid configuration!

The configuration file could not be read or failed validation.

## Things you can try:
- Show the effective configuration:
~~~
$ py --config
~~~
- Point ` + "`PY_LAUNCHER_CONFIG`" + ` at another file, or unset it

## Example config.toml:
~~~toml
default = "3.12"

[venv]
dir_name = ".venv"
search_parents = true
~~~`,
	}

	issues = []*Issue{
		illegalArgumentIssue,
		malformedSpecifierIssue,
		noInterpreterFoundIssue,
		ambiguousVenvIssue,
		dispatchFailedIssue,
		configLoadFailedIssue,
	}
)

// Id returns the issue's identifier.
func (i *Issue) Id() Id {
	return i.id
}

// ExitCode returns the process exit code for this kind of failure.
func (i *Issue) ExitCode() int {
	return i.exitCode
}

// MarkdownMsg returns the raw Markdown explanation.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// ExtLinks returns a copy of the external references.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the explanation for a terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every catalog entry in Id order.
func Values() []*Issue {
	return slices.Clone(issues)
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	for _, i := range issues {
		if i.id == id {
			return i
		}
	}
	return nil
}
