package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/ironquest/internal/solver/planner"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleSelected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("24"))

	styleQuest = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTrain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleLamp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleFuture = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	styleDetailTitle = lipgloss.NewStyle().
				Bold(true)

	styleDetail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color("240"))
)

// actionStyle picks the style of an unselected action line
func actionStyle(a planner.Action) lipgloss.Style {
	if a.Future() {
		return styleFuture
	}
	switch a.Type() {
	case planner.ActionTrain:
		return styleTrain
	case planner.ActionLamp:
		return styleLamp
	default:
		return styleQuest
	}
}
