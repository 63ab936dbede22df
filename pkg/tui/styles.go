package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorActive   = "170" // purple for the AI marker and focus
	ColorInactive = "240"
	ColorSelected = "236"
	ColorNormal   = "245"
	ColorDim      = "241"
	ColorWarning  = "214"
	ColorDanger   = "196"
	ColorSuccess  = "28"
	ColorTitle    = "205"
)

var (
	ActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorActive))

	InactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorInactive))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorActive)).
			Background(lipgloss.Color(ColorSelected)).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal))

	LineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim))

	AIMarkerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorActive)).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTitle)).
			Bold(true)

	HeaderPaddingStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				PaddingRight(1)

	ReplyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal)).
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDanger))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess))

	ConfirmDangerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDanger)).
				Bold(true)
)

// budgetStyle colors a token budget status from utils.BudgetStatus.
func budgetStyle(status string) lipgloss.Style {
	switch status {
	case "danger":
		return ErrorStyle
	case "warning":
		return WarningStyle
	}
	return SuccessStyle
}
