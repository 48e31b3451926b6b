// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines the launcher's issue catalog (one Markdown explanation and exit
// code per failure kind), the ActionableError type that carries operation,
// resource and remediation hints, and ExitCodeFor, which maps any error
// returned by the launcher to its process exit code.
package issue
