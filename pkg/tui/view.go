package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/session"
	"github.com/quillmate/quillmate-cli/pkg/utils"
)

// Rows outside the document pane: header, reply, input box, status.
const chromeHeight = 1 + 2 + 3 + 1

const gutterWidth = 6

func (a *App) layout() {
	width := max(a.width-4, 20)
	a.viewport.Width = width
	a.viewport.Height = max(a.height-chromeHeight-2, 3)
	a.input.Width = max(a.width-6, 10)
	a.refreshContent()
}

// refreshContent re-renders the document pane from the session's lines.
func (a *App) refreshContent() {
	a.viewport.SetContent(renderLines(a.sess.Lines(), a.selection, a.viewport.Width))
}

func renderLines(lines []models.Line, sel session.Selection, width int) string {
	if len(lines) == 0 {
		return NormalStyle.Render("Empty document. Ask the assistant to write something.")
	}

	textWidth := max(width-gutterWidth, 10)
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}

		marker := " "
		if l.AIEnhanced {
			marker = AIMarkerStyle.Render("*")
		}
		gutter := LineNumberStyle.Render(fmt.Sprintf("%3d ", l.Number)) + marker + " "

		text := l.Content
		switch {
		case l.Type == models.LineListItem:
			text = "• " + text
		case l.HeadingLevel() > 0:
			text = TitleStyle.Render(text)
		}

		style := NormalStyle
		if !sel.Empty() && l.Number >= sel.From && l.Number <= sel.To {
			style = SelectedStyle
		}
		wrapped := strings.Split(wordwrap.String(text, textWidth), "\n")
		for j, row := range wrapped {
			if j == 0 {
				sb.WriteString(gutter + style.Render(row))
				continue
			}
			sb.WriteString("\n" + strings.Repeat(" ", gutterWidth) + style.Render(row))
		}
	}
	return sb.String()
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := TitleStyle.Render("quillmate") + "  " + StatusStyle.Render(a.sess.Path())
	if !a.selection.Empty() {
		header += "  " + SelectedStyle.Render(fmt.Sprintf(" lines %d-%d ", a.selection.From, a.selection.To))
	}

	pane := InactiveBorderStyle
	if a.busy {
		pane = ActiveBorderStyle
	}
	doc := pane.Width(a.width - 2).Render(a.viewport.View())

	reply := ""
	if a.reply != "" {
		wrapped := wordwrap.String(a.reply, max(a.width-4, 10))
		rows := strings.Split(wrapped, "\n")
		if len(rows) > 2 {
			rows = append(rows[:1], truncate.StringWithTail(rows[1], uint(max(a.width-4, 10)), "..."))
		}
		reply = ReplyStyle.Render(strings.Join(rows, "\n"))
	}

	var input string
	if a.confirm.Active() {
		input = a.confirm.View(a.width - 4)
	} else {
		prompt := a.input.View()
		if a.busy {
			prompt = a.spinner.View() + " " + StatusStyle.Render(a.status)
		}
		input = prompt
	}
	inputBox := InactiveBorderStyle.Width(a.width - 2).Render(input)

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderPaddingStyle.Render(header),
		doc,
		HeaderPaddingStyle.Render(reply),
		inputBox,
		HeaderPaddingStyle.Render(a.statusBar()),
	)
}

func (a *App) statusBar() string {
	left := StatusStyle.Render(a.status)
	if a.statusErr {
		left = ErrorStyle.Render(a.status)
	}

	tokens := utils.EstimateTokens(a.sess.Editor().Text())
	pct, limit, status := utils.BudgetStatus(tokens, a.opts.Model)
	budget := budgetStyle(status).Render(fmt.Sprintf("%s of %d (%d%%)",
		utils.FormatTokenCount(tokens), limit, pct))

	right := budget
	if a.sess.Dirty() {
		right = WarningStyle.Render("modified") + "  " + right
	}
	if a.opts.Model != "" {
		right += "  " + StatusStyle.Render(a.opts.Model)
	}

	gap := a.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return right
	}
	return left + strings.Repeat(" ", gap) + right
}
