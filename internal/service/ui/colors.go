package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle ANSI 6 (Cyan) for section titles
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green) for usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Bright Black) for descriptions
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// FailureStyle ANSI 1 (Red) for fatal console diagnostics
	FailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// StatusStyle for the exit status printed by the CLI
	StatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)
