// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

const (
	// SeverityInfo marks an expected skip (e.g. a search path entry that does not exist).
	SeverityInfo Severity = "info"
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
)

// Diagnostic codes.
const (
	CodeSearchDirMissing    = "search_dir_missing"
	CodeSearchDirUnreadable = "search_dir_unreadable"
	CodeSearchDirRelative   = "search_dir_relative"
	CodeSearchDirEmpty      = "search_dir_empty"
	CodeEntryNotExecutable  = "entry_not_executable"
	CodeEntryUnreadable     = "entry_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a non-fatal discovery finding that is handed to
	// callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "search_dir_unreadable").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the directory or file concerned.
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", d.Severity, d.Message, d.Cause)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
