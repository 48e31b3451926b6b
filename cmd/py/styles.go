// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple - used for titles and interpreter versions.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for secondary text and table separators.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorError is red - used for errors and failures.
	ColorError = lipgloss.Color("#EF4444")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// listVersionStyle is for the version column of --list.
	listVersionStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Align(lipgloss.Right).
				PaddingRight(1)

	// listPathStyle is for the path column of --list.
	listPathStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	// listSeparatorStyle is for the column separator of --list.
	listSeparatorStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)
