package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wordRe = regexp.MustCompile(`\S+`)
	tagRe  = regexp.MustCompile(`<[^>]*>`)
)

// contextWindows lists prompt limits for the models quillmate offers by default
var contextWindows = map[string]int{
	"gpt-4o":        128000,
	"gpt-4o-mini":   128000,
	"gpt-4.1":       1047576,
	"gpt-4.1-mini":  1047576,
	"gpt-4-turbo":   128000,
	"gpt-4":         8192,
	"gpt-3.5-turbo": 16385,
}

// DefaultContextWindow is assumed for models missing from the table
const DefaultContextWindow = 8192

// EstimateTokens gives a rough token count for a prompt.
// It averages the 4-characters-per-token and 0.75-words-per-token rules of
// thumb. Markup is counted denser since tags split into many short tokens.
func EstimateTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	byChars := len(text) / 4
	byWords := int(float64(len(wordRe.FindAllString(text, -1))) * 1.3)
	estimate := (byChars + byWords) / 2

	for _, tag := range tagRe.FindAllString(text, -1) {
		estimate += len(tag)/3 - len(tag)/4
	}

	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

// FormatTokenCount formats the token count for display
func FormatTokenCount(tokens int) string {
	switch {
	case tokens < 1000:
		return fmt.Sprintf("~%d tokens", tokens)
	case tokens < 10000:
		return fmt.Sprintf("~%.1fK tokens", float64(tokens)/1000)
	default:
		return fmt.Sprintf("~%.0fK tokens", float64(tokens)/1000)
	}
}

// ContextWindow returns the prompt limit of a model. Dated snapshots such as
// gpt-4o-2024-08-06 resolve to their base model.
func ContextWindow(model string) int {
	model = strings.ToLower(strings.TrimSpace(model))
	if n, ok := contextWindows[model]; ok {
		return n
	}
	best := ""
	for name := range contextWindows {
		if strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best = name
		}
	}
	if best != "" {
		return contextWindows[best]
	}
	return DefaultContextWindow
}

// BudgetStatus reports how much of a model's window the tokens would use
func BudgetStatus(tokens int, model string) (percentage int, limit int, status string) {
	limit = ContextWindow(model)
	percentage = tokens * 100 / limit

	switch {
	case percentage < 50:
		status = "good"
	case percentage < 80:
		status = "warning"
	default:
		status = "danger"
	}
	return percentage, limit, status
}
