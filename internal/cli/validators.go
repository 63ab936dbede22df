package cli

import (
	"fmt"
	"strings"

	"github.com/quillmate/quillmate-cli/pkg/intent"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/utils"
)

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateDocumentName rejects names that cannot become a file name.
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("document name cannot be empty")
	}
	for _, char := range []string{"/", "\\", "..", "~", "$", "`"} {
		if strings.Contains(name, char) {
			return fmt.Errorf("document name contains invalid character: %s", char)
		}
	}
	return nil
}

// ValidateSpacing checks a spacing policy name.
func ValidateSpacing(policy string) error {
	switch policy {
	case models.SpacingPreserve, models.SpacingNone:
		return nil
	}
	return fmt.Errorf("invalid spacing: %s (must be: %s or %s)", policy, models.SpacingPreserve, models.SpacingNone)
}

// ValidateModel checks that model is one of the configured models.
func ValidateModel(model string, available []string) error {
	for _, m := range available {
		if m == model {
			return nil
		}
	}
	return fmt.Errorf("unknown model: %s (configured: %s)", model, strings.Join(available, ", "))
}

// ValidateLineRange parses "N" or "N-M" against a document of total lines.
func ValidateLineRange(spec string, total int) (from, to int, err error) {
	from, to, err = intent.ParseRange(spec)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid line range: %q", spec)
	}
	if to > total {
		return 0, 0, fmt.Errorf("line range %q is past the end of the document (%d lines)", spec, total)
	}
	return from, to, nil
}

// CheckPromptBudget warns when a document is close to the model's
// context window.
func CheckPromptBudget(text, model string) {
	tokens := utils.EstimateTokens(text)
	pct, limit, status := utils.BudgetStatus(tokens, model)
	if status != "good" {
		PrintWarning("document uses %s of the %d-token window of %s (%d%%)",
			utils.FormatTokenCount(tokens), limit, model, pct)
	}
}
