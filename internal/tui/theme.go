package tui

import "github.com/charmbracelet/lipgloss"

var (
	Lime    = lipgloss.Color("#a3e635")
	Ink     = lipgloss.Color("#0a0a0a")
	Panel   = lipgloss.Color("#1c1c1c")
	Subtle  = lipgloss.Color("#6b7280")
	Text    = lipgloss.Color("#f5f5f5")
	Warning = lipgloss.Color("#f59e0b")
	Danger  = lipgloss.Color("#ef4444")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	headerStyle = lipgloss.NewStyle().Foreground(Lime).Bold(true)
	statusStyle = lipgloss.NewStyle().
			Foreground(Ink).
			Background(Lime).
			Padding(0, 1).
			Bold(true)
	pausedStyle = statusStyle.Background(Warning)

	bigStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)

	statBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 2).
		Width(16)

	labelStyle = lipgloss.NewStyle().Foreground(Subtle)
	errorStyle = lipgloss.NewStyle().Foreground(Danger)
	okStyle    = lipgloss.NewStyle().Foreground(Lime)

	countdownStyle = lipgloss.NewStyle().
			Foreground(Lime).
			Bold(true).
			Padding(1, 6).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Lime)
)
