package models

import "time"

// LineType is the kind of block a tracked line came from. Headings are
// folded into LineParagraph and keep their level in Attrs.
type LineType string

const (
	LineParagraph LineType = "paragraph"
	LineListItem  LineType = "list-item"
)

// LineAttrs carries the structural details that LineType folds away.
type LineAttrs struct {
	Level   int  `json:"level,omitempty" yaml:"level,omitempty"`
	Ordered bool `json:"ordered,omitempty" yaml:"ordered,omitempty"`
}

// AIMetadata records the instruction that produced a line's current content.
type AIMetadata struct {
	LastEnhanced      time.Time `json:"lastEnhanced" yaml:"last_enhanced"`
	EnhancementPrompt string    `json:"enhancementPrompt" yaml:"enhancement_prompt"`
	OriginalContent   string    `json:"originalContent" yaml:"original_content"`
}

// Line is one tracked top-level block of a document.
type Line struct {
	ID           string      `json:"id" yaml:"id"`
	Number       int         `json:"number" yaml:"number"`
	Content      string      `json:"content" yaml:"content"`
	Type         LineType    `json:"type" yaml:"type"`
	Attrs        *LineAttrs  `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Timestamp    time.Time   `json:"timestamp" yaml:"timestamp"`
	LastModified time.Time   `json:"lastModified" yaml:"last_modified"`
	AIEnhanced   bool        `json:"aiEnhanced" yaml:"ai_enhanced"`
	AIMetadata   *AIMetadata `json:"aiMetadata,omitempty" yaml:"ai_metadata,omitempty"`

	// SpacedAfter is set when the block is followed by a blank spacer block.
	SpacedAfter bool `json:"spacedAfter,omitempty" yaml:"spaced_after,omitempty"`
}

// HeadingLevel returns the heading level of the line, or 0 for body text.
func (l Line) HeadingLevel() int {
	if l.Attrs == nil {
		return 0
	}
	return l.Attrs.Level
}

// CloneLines returns a copy of lines that shares no pointers with the input.
func CloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.Attrs != nil {
			attrs := *l.Attrs
			out[i].Attrs = &attrs
		}
		if l.AIMetadata != nil {
			meta := *l.AIMetadata
			out[i].AIMetadata = &meta
		}
	}
	return out
}

// Renumber assigns contiguous numbers starting at 1 in slice order.
func Renumber(lines []Line) {
	for i := range lines {
		lines[i].Number = i + 1
	}
}
