package models

import "time"

// FileItem is one entry of the document tree under the store root.
type FileItem struct {
	Name         string     `json:"name" yaml:"name"`
	Path         string     `json:"path" yaml:"path"`
	DisplayName  string     `json:"displayName" yaml:"display_name"`
	LastModified time.Time  `json:"lastModified" yaml:"last_modified"`
	IsDirectory  bool       `json:"isDirectory" yaml:"is_directory"`
	Size         int64      `json:"size,omitempty" yaml:"size,omitempty"`
	Children     []FileItem `json:"children,omitempty" yaml:"children,omitempty"`
}

// Operation names the kind of work the assistant is asked to perform.
type Operation string

const (
	OpInlineEdit    Operation = "inline_edit"
	OpMultiLineEdit Operation = "multi_line_edit"
	OpContinueText  Operation = "continue_text"
	OpSummarizeText Operation = "summarize_text"
	OpAnalyzeText   Operation = "analyze_text"
	OpDeleteText    Operation = "delete_text"
	OpGenerateFile  Operation = "generate_file"
)

// Operations lists every operation in routing order.
var Operations = []Operation{
	OpInlineEdit,
	OpMultiLineEdit,
	OpContinueText,
	OpSummarizeText,
	OpAnalyzeText,
	OpDeleteText,
	OpGenerateFile,
}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	for _, known := range Operations {
		if op == known {
			return true
		}
	}
	return false
}

// Analysis is the structured record returned by analyze_text.
type Analysis struct {
	Filename         string   `json:"filename" yaml:"filename"`
	Summary          string   `json:"summary" yaml:"summary" validate:"required"`
	Purpose          string   `json:"purpose" yaml:"purpose"`
	KeyComponents    []string `json:"keyComponents" yaml:"key_components"`
	TechnicalDetails string   `json:"technicalDetails" yaml:"technical_details"`
}
