package commands

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
)

// userError turns an assistant failure into the message shown to users.
// Causes the assistant package does not recognise are kept.
func userError(err error) error {
	msg := assistant.UserMessage(err)
	if msg == assistant.GenericErrorMessage {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return errors.New(msg)
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}

// unifiedDiff renders a line diff of two document texts.
func unifiedDiff(name, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(ensureNewline(before)),
		B:        difflib.SplitLines(ensureNewline(after)),
		FromFile: name + " (before)",
		ToFile:   name + " (after)",
		Context:  2,
	})
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
