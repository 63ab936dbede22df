// Package composer builds the prompts sent to the language model.
package composer

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/quillmate/quillmate-cli/pkg/intent"
	"github.com/quillmate/quillmate-cli/pkg/models"
)

// Prompt is a composed system and user message pair.
type Prompt struct {
	System string
	User   string
}

// Input is everything a chat prompt is built from.
type Input struct {
	Message      string
	Filename     string
	FullContent  string
	SelectedText string
	Lines        []models.Line
	Intent       intent.Intent
}

// Compose builds the chat prompt for in.
func Compose(in Input) (Prompt, error) {
	targets := TargetLines(in.Intent, in.Lines, in.SelectedText)
	if targets == nil {
		targets = []models.Line{}
	}
	encoded, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to encode target lines: %w", err)
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Request: \"%s\"\n\n", in.Message)
	fmt.Fprintf(&user, "Filename: %s\n\n", in.Filename)
	fmt.Fprintf(&user, "Document Content:\n%s\n\n", in.FullContent)
	if in.SelectedText != "" {
		fmt.Fprintf(&user, "Selected Text:\n%s\n\n", in.SelectedText)
	}
	if in.Intent.Operation == models.OpContinueText && in.Intent.RequestedCount > 0 {
		fmt.Fprintf(&user, "Requested Lines: %d\n\n", in.Intent.RequestedCount)
	}
	fmt.Fprintf(&user, "Lines to Consider:\n%s", encoded)

	return Prompt{
		System: SystemPrompt(in.Intent.Operation, in.Filename, in.Intent.IsFileQuery),
		User:   user.String(),
	}, nil
}

// TargetLines narrows lines to the ones the request is about: lines whose
// content appears in the selection, else the explicitly named numbers, else
// everything up to a continuation anchor, else all lines.
func TargetLines(it intent.Intent, lines []models.Line, selected string) []models.Line {
	switch {
	case selected != "":
		return filterLines(lines, func(l models.Line) bool {
			return strings.Contains(selected, l.Content)
		})
	case len(it.LineNumbers) > 0:
		return filterLines(lines, func(l models.Line) bool {
			return slices.Contains(it.LineNumbers, l.Number)
		})
	case it.Operation == models.OpContinueText && it.AfterLine != nil:
		anchor := *it.AfterLine
		return filterLines(lines, func(l models.Line) bool {
			return l.Number <= anchor
		})
	}
	return lines
}

func filterLines(lines []models.Line, keep func(models.Line) bool) []models.Line {
	var out []models.Line
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// EnhanceInput is a direct rewrite of a selection.
type EnhanceInput struct {
	SelectedText string
	Prompt       string
	Context      string
	Filename     string
}

// ComposeEnhance builds the prompt for a direct selection rewrite.
func ComposeEnhance(in EnhanceInput) Prompt {
	var user strings.Builder
	fmt.Fprintf(&user, "Selected text: \"%s\"\n\n", in.SelectedText)
	fmt.Fprintf(&user, "Enhancement prompt: \"%s\"", in.Prompt)
	if in.Context != "" {
		fmt.Fprintf(&user, "\nContext: %s", in.Context)
	}
	if in.Filename != "" {
		fmt.Fprintf(&user, "\nFile: %s", in.Filename)
	}
	return Prompt{System: enhanceSystemPrompt, User: user.String()}
}
