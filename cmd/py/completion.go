// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/cclauss/python-launcher/internal/discovery"
	"github.com/cclauss/python-launcher/pkg/pyversion"

	"github.com/spf13/cobra"
)

// launcherFlags are offered when completing the first argument.
var launcherFlags = []string{"--help", "--list", "--version", "--config", "--completion"}

// writeCompletion prints the completion script for shell.
func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return nil
}

// completeArgs completes the first argument with launcher options and the
// version flags of the interpreters found; later arguments complete as files.
func (a *App) completeArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 && args[0] == "--completion" {
		return filterPrefix(completionShells, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) > 0 || !strings.HasPrefix(toComplete, "-") {
		return nil, cobra.ShellCompDirectiveDefault
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	inv, err := a.prepare(ctx, nil)
	if err != nil {
		return filterPrefix(launcherFlags, toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	candidates := slices.Clone(launcherFlags)
	candidates = append(candidates, versionFlags(discovery.Newest(inv.resolver.Discoverer().All()))...)
	return filterPrefix(candidates, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// versionFlags returns "-X" and "-X.Y" for each interpreter, without duplicates.
func versionFlags(interpreters []discovery.Interpreter) []string {
	var flags []string
	add := func(flag string) {
		if !slices.Contains(flags, flag) {
			flags = append(flags, flag)
		}
	}
	for _, interp := range interpreters {
		v := pyversion.Version{Major: interp.Version.Major, Minor: interp.Version.Minor, HasMinor: interp.Version.HasMinor}
		add("-" + pyversion.Version{Major: v.Major}.String())
		if v.HasMinor {
			add("-" + v.String())
		}
	}
	return flags
}

func filterPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}
