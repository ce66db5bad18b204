// Package styles provides shared lipgloss styles for UI components.
//
// Status line colors come from the user's [colors] config and are handled
// by the format package. The palette here is for chrome only: table
// headers, the progress bar and prompts.
package styles

import "charm.land/lipgloss/v2"

// Palette used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary = lipgloss.Color("62")

	// Accent is the highlight color for active items (pink)
	Accent = lipgloss.Color("212")

	// Muted is used for secondary text (gray)
	Muted = lipgloss.Color("240")
)

// Common styles
var (
	// HeaderStyle is used for table headers
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// MutedStyle applies the muted color
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	// PromptStyle applies the accent color with bold
	PromptStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)
