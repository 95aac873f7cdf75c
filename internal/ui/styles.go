package ui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	noteTitleStyle    = lipgloss.NewStyle().Bold(true)
	noteContentStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	selectedStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#25A065")).PaddingLeft(1)
	unselectedStyle   = lipgloss.NewStyle().PaddingLeft(2)
	tagStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#1D1D1D")).Background(lipgloss.Color("#F2C94C")).Padding(0, 1)
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"})
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5484D"))
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	modalStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#25A065")).Padding(1, 2)
	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("#25A065"))
	buttonStyle       = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder())
	activeButtonStyle = buttonStyle.BorderForeground(lipgloss.Color("#25A065")).Foreground(lipgloss.Color("#25A065"))
	disabledStyle     = buttonStyle.Foreground(lipgloss.Color("#555555")).BorderForeground(lipgloss.Color("#555555"))
)
