package tui

import "github.com/charmbracelet/lipgloss"

const (
	nameColumnWidth = 28
	inputWidth      = 32
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorMuted   = lipgloss.Color("#6C6C6C")
	colorText    = lipgloss.Color("#E4E4E4")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	rowStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				PaddingLeft(2)

	quantityStyle = lipgloss.NewStyle().Foreground(colorMuted)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			PaddingLeft(2)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2).
			MarginTop(1)

	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				MarginBottom(1)

	labelStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	helpStyle = lipgloss.NewStyle().MarginTop(1)
)
