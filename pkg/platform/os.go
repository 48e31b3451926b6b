// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// MacOSFrameworkDir is where the python.org macOS installers place the
// versioned interpreter links for the current framework build.
const MacOSFrameworkDir = "/Library/Frameworks/Python.framework/Versions/Current/bin"

// FrameworkDir returns the fixed framework directory probed after the search
// path on goos, or "" when the platform has none.
func FrameworkDir(goos string) string {
	if goos == Darwin {
		return MacOSFrameworkDir
	}
	return ""
}
