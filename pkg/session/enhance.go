package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
	"github.com/quillmate/quillmate-cli/pkg/models"
)

// EnhanceSelection rewrites the selected lines with prompt and puts the
// result in their place. Replacement lines reuse the ids of the lines they
// replace, in order; extra lines get new ids.
func (s *Session) EnhanceSelection(ctx context.Context, sel Selection, prompt string) (*assistant.EnhanceResponse, error) {
	if sel.Empty() {
		return nil, fmt.Errorf("select the lines to enhance first")
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	before := s.Refresh()
	if sel.From > len(before) {
		return nil, fmt.Errorf("line %d does not exist", sel.From)
	}
	sel.To = min(sel.To, len(before))

	selected := s.editor.Selection(sel.From, sel.To)
	resp, err := s.assistant.Enhance(ctx, assistant.EnhanceRequest{
		SelectedText: selected,
		Prompt:       prompt,
		Context:      surrounding(before, sel),
		Filename:     s.Filename(),
	})
	if err != nil {
		return nil, err
	}

	s.applyLines(s.replaceRange(before, sel, resp.EnhancedText, prompt))
	return resp, nil
}

func (s *Session) replaceRange(before []models.Line, sel Selection, text, prompt string) []models.Line {
	replaced := before[sel.From-1 : sel.To]
	now := s.now()

	var fresh []models.Line
	for _, part := range strings.Split(text, "\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		line := models.Line{
			Content:      part,
			Type:         models.LineParagraph,
			Timestamp:    now,
			LastModified: now,
			AIEnhanced:   true,
			AIMetadata: &models.AIMetadata{
				LastEnhanced:      now,
				EnhancementPrompt: prompt,
			},
		}
		if i := len(fresh); i < len(replaced) {
			old := replaced[i]
			line.ID = old.ID
			line.Type = old.Type
			line.Attrs = old.Attrs
			line.Timestamp = old.Timestamp
			line.SpacedAfter = old.SpacedAfter
			line.AIMetadata.OriginalContent = old.Content
		} else {
			line.ID = s.newID()
		}
		fresh = append(fresh, line)
	}
	if len(fresh) > 0 && len(replaced) > 0 {
		fresh[len(fresh)-1].SpacedAfter = replaced[len(replaced)-1].SpacedAfter
	}

	lines := make([]models.Line, 0, len(before)-len(replaced)+len(fresh))
	lines = append(lines, models.CloneLines(before[:sel.From-1])...)
	lines = append(lines, fresh...)
	lines = append(lines, models.CloneLines(before[sel.To:])...)
	if len(lines) == 0 {
		lines = append(lines, models.Line{ID: s.newID(), Content: " ", Type: models.LineParagraph, Timestamp: now, LastModified: now})
	}
	models.Renumber(lines)
	return lines
}

// surrounding gives the model the lines just outside the selection.
func surrounding(lines []models.Line, sel Selection) string {
	var parts []string
	if sel.From > 1 {
		parts = append(parts, "Before: "+lines[sel.From-2].Content)
	}
	if sel.To < len(lines) {
		parts = append(parts, "After: "+lines[sel.To].Content)
	}
	return strings.Join(parts, " | ")
}
