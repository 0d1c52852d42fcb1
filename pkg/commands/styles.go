package commands

import "github.com/charmbracelet/lipgloss"

// Shared styles for command output. Kept deliberately small: the CLI prints
// short reports, not a full-screen interface.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8E6CF")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB3BA"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A8E6CF"))

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			PaddingLeft(2)
)
