package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationModel is an inline yes/no prompt shown above the input.
type ConfirmationModel struct {
	active      bool
	message     string
	destructive bool
	onConfirm   func() tea.Cmd
	onCancel    func() tea.Cmd
}

// NewConfirmation creates an inactive confirmation.
func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the prompt. Either callback may be nil.
func (m *ConfirmationModel) Show(message string, destructive bool, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.message = message
	m.destructive = destructive
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

// Active returns whether the confirmation is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles a key while the prompt is shown. Keys other than y, n
// and esc are swallowed.
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	var next func() tea.Cmd
	switch msg.String() {
	case "y", "Y":
		next = m.onConfirm
	case "n", "N", "esc":
		next = m.onCancel
	default:
		return nil
	}
	m.active = false
	if next != nil {
		return next()
	}
	return nil
}

// View renders the prompt, centered when width is positive.
func (m *ConfirmationModel) View(width int) string {
	if !m.active {
		return ""
	}

	yes := SuccessStyle.Render("[Y]es")
	no := ErrorStyle.Render("[N]o")
	if m.destructive {
		yes = ErrorStyle.Render("[Y]es")
		no = SuccessStyle.Render("[N]o")
	}
	message := fmt.Sprintf("%s %s / %s", WarningStyle.Render(m.message), yes, no)

	if width > 0 && lipgloss.Width(message) < width {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(message)
	}
	return message
}
