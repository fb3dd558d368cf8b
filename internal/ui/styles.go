package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Accent highlights note indices and file names.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted is for secondary information such as masked secrets.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	Bold = lipgloss.NewStyle().Bold(true)
)
