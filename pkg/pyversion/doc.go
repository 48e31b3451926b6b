// SPDX-License-Identifier: MPL-2.0

// Package pyversion parses and compares Python version requests.
//
// A Specifier is a possibly partial request ("3", "3.9", "3.9-32", "-64").
// A Version is what an interpreter's file name encodes ("python3.11" is 3.11,
// "python3" is 3 with an unknown minor). Specifiers match versions field by
// field; unset specifier fields impose no constraint.
package pyversion
