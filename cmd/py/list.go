// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/cclauss/python-launcher/internal/discovery"
	"github.com/cclauss/python-launcher/internal/resolve"
	"github.com/cclauss/python-launcher/pkg/pyversion"

	"github.com/charmbracelet/lipgloss"
)

// list prints one row per distinct interpreter version, newest first.
func (a *App) list(inv *invocation) error {
	found := discovery.Newest(inv.resolver.Discoverer().All())
	if len(found) == 0 {
		return &resolve.NoInterpreterFoundError{Specifier: pyversion.Any(), Signal: resolve.KindUnconstrained}
	}
	fmt.Fprintln(a.stdout, renderList(found, inv.snapshot.Arch()))
	return nil
}

// renderList lays interpreters out as "version │ path" rows, one per
// interpreter, with the version column right-aligned. The architecture is
// only shown when it differs from native.
func renderList(interpreters []discovery.Interpreter, native pyversion.Arch) string {
	versions := make([]string, len(interpreters))
	width := 0
	for i, interp := range interpreters {
		v := interp.Version
		if v.Arch == native {
			v.Arch = pyversion.ArchAny
		}
		versions[i] = v.String()
		width = max(width, lipgloss.Width(versions[i]))
	}

	versionStyle := listVersionStyle.Width(width + listVersionStyle.GetHorizontalPadding())
	separator := listSeparatorStyle.Render("│")
	rows := make([]string, len(interpreters))
	for i, interp := range interpreters {
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			versionStyle.Render(versions[i]),
			separator,
			listPathStyle.Render(interp.Path),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
