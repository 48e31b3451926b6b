// SPDX-License-Identifier: MPL-2.0

package testutil

import "testing"

// SetHomeDir points HOME at dir and clears XDG_CONFIG_HOME so that
// configuration lookups resolve under dir. It returns a cleanup function
// restoring both variables.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
//
//	    // Test code that uses the home directory...
//	}
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	restoreHome := MustSetenv(t, "HOME", dir)
	restoreXDG := MustUnsetenv(t, "XDG_CONFIG_HOME")
	return func() {
		restoreXDG()
		restoreHome()
	}
}
