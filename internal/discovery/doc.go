// SPDX-License-Identifier: MPL-2.0

// Package discovery enumerates the Python interpreters installed on the
// executable search path.
//
// Discovery is a read-only scan. Every directory on the search path is listed
// in order, and entries named python<major>[.<minor>][-<arch>] that are
// executable regular files become candidates. A single framework directory
// may be probed after the search path is exhausted.
//
// Versions are inferred from file names only. Candidates are never executed
// to confirm their version, which keeps discovery free of side effects and
// cheap enough to run on every invocation.
//
// File organization:
//   - discovery.go: Interpreter, Discoverer and the lazy scan
//   - diagnostic.go: non-fatal findings about skipped directories and entries
package discovery
