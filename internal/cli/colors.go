package cli

import "github.com/charmbracelet/lipgloss"

// osu! colour palette
// Shared by the CLI output and the progress UI
var (
	OsuPink   = lipgloss.Color("#FF66AA") // Primary brand pink
	OsuPurple = lipgloss.Color("#B36BFF") // Secondary purple
	OsuBlue   = lipgloss.Color("#66CCFF") // Highlight blue
	OsuYellow = lipgloss.Color("#FFDF40") // Full combo gold

	// Accent colours
	SlateGray = lipgloss.Color("#8A8FA8") // Subtle text
)
