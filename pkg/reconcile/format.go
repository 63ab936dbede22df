package reconcile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripMarkup removes anything that looks like a markup tag.
func StripMarkup(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// FormatAnalysis renders an analysis record as one readable message.
func FormatAnalysis(a models.Analysis) string {
	var sb strings.Builder
	sb.WriteString("Content Analysis:\n\n")
	if a.Filename != "" {
		fmt.Fprintf(&sb, "File: %s\n\n", a.Filename)
	}
	sb.WriteString(a.Summary + "\n\n")
	fmt.Fprintf(&sb, "Purpose: %s\n\n", a.Purpose)
	if len(a.KeyComponents) > 0 {
		sb.WriteString("Key Components:\n")
		for i, c := range a.KeyComponents {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, c)
		}
		sb.WriteString("\n")
	}
	if a.TechnicalDetails != "" {
		fmt.Fprintf(&sb, "Technical Details:\n%s", a.TechnicalDetails)
	}
	return strings.TrimRight(sb.String(), "\n")
}
