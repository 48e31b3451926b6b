// SPDX-License-Identifier: MPL-2.0

// Package platform provides operating-system conventions the launcher depends
// on: GOOS names and the well-known locations probed after the search path.
package platform
