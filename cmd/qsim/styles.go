package main

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	cellW     = 9 // width of each step column in characters
	labelW    = 7 // visual width of the wire label area
	gateNameW = 5 // width of a gate name inside its box
)

// Lipgloss styles used across the TUI.
var (
	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1)

	resultsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Padding(1)

	controlsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9ece6a")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff9e64")).
			Foreground(lipgloss.Color("#1a1b26")).
			Bold(true)

	selectStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#bb9af7")).
			Foreground(lipgloss.Color("#1a1b26")).
			Bold(true)

	wireLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	gateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	paletteSelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))
)
