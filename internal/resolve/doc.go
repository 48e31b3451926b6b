// SPDX-License-Identifier: MPL-2.0

// Package resolve decides which Python interpreter an invocation runs.
//
// Every ambient input (arguments, environment variables, working directory,
// search path) is captured once into an immutable Snapshot. Resolution is a
// pure function of that Snapshot, a Policy, and the filesystem reads done by
// the virtual environment detector and the interpreter discoverer.
//
// Precedence, first applicable wins:
//  1. An explicit version flag ("-3.9"). A malformed flag is fatal.
//  2. The script's shebang, when the first argument is a script.
//  3. The active virtual environment, unless the flag or shebang asked for a
//     version the environment does not provide.
//  4. PY_PYTHON / PY_PYTHON<major>, then the configured default.
//  5. The newest discovered interpreter.
//
// File organization:
//   - snapshot.go: Snapshot, the captured invocation environment
//   - request.go: Request, the signal that drives one resolution
//   - args.go: version flag and script argument detection
//   - resolve.go: Resolver and the precedence chain
//   - errors.go: resolution failures
package resolve
