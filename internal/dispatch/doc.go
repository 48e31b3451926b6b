// SPDX-License-Identifier: MPL-2.0

// Package dispatch replaces the launcher process with the selected
// interpreter. On success Dispatch never returns.
package dispatch
