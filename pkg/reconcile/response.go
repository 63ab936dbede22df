package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

var (
	// ErrMalformedResponse marks an assistant body that does not fit the
	// shape its operation declares.
	ErrMalformedResponse = errors.New("malformed assistant response")

	// ErrUnknownOperation marks a body naming an operation we do not handle.
	ErrUnknownOperation = errors.New("unknown assistant operation")
)

var validate = validator.New()

// Response is one decoded assistant answer. The concrete types are
// EditResponse, ContinueResponse, SummarizeResponse, AnalyzeResponse,
// DeleteResponse and GenerateFileResponse.
type Response interface {
	Operation() models.Operation
	Note() string
	isResponse()
}

// Base carries the fields every response shares.
type Base struct {
	Op      models.Operation `json:"operation" validate:"required"`
	Message string           `json:"message"`
}

func (b Base) Operation() models.Operation { return b.Op }
func (b Base) Note() string                { return b.Message }
func (Base) isResponse()                   {}

// Change replaces the content of one numbered line.
type Change struct {
	LineNumber int             `json:"lineNumber" validate:"gte=1"`
	Content    string          `json:"content"`
	Type       models.LineType `json:"type,omitempty" validate:"omitempty,oneof=paragraph list-item"`
}

// EditResponse answers inline_edit and multi_line_edit.
type EditResponse struct {
	Base
	Changes []Change `json:"changes" validate:"required,min=1,dive"`
}

// NewLine is one block of continued text.
type NewLine struct {
	Content string          `json:"content"`
	Type    models.LineType `json:"type,omitempty" validate:"omitempty,oneof=paragraph list-item"`
}

// ContinueResponse answers continue_text.
type ContinueResponse struct {
	Base
	NewLines  []NewLine `json:"newLines" validate:"required,min=1,dive"`
	AfterLine *int      `json:"afterLine,omitempty" validate:"omitempty,gte=0"`
}

// SummarizeResponse answers summarize_text.
type SummarizeResponse struct {
	Base
	Summary string `json:"summary" validate:"required"`
}

// AnalyzeResponse answers analyze_text.
type AnalyzeResponse struct {
	Base
	Analysis models.Analysis `json:"analysis"`
}

// DeleteResponse answers delete_text.
type DeleteResponse struct {
	Base
	LinesToDelete []int `json:"linesToDelete" validate:"required,dive,gte=1"`
}

// GenerateFileResponse answers generate_file.
type GenerateFileResponse struct {
	Base
	Filename string `json:"filename" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// Decode parses and validates a raw assistant body. Shape problems wrap
// ErrMalformedResponse; an unrecognised operation wraps ErrUnknownOperation.
func Decode(raw []byte) (Response, error) {
	var envelope Base
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var resp Response
	switch envelope.Op {
	case models.OpInlineEdit, models.OpMultiLineEdit:
		resp = &EditResponse{}
	case models.OpContinueText:
		resp = &ContinueResponse{}
	case models.OpSummarizeText:
		resp = &SummarizeResponse{}
	case models.OpAnalyzeText:
		resp = &AnalyzeResponse{}
	case models.OpDeleteText:
		resp = &DeleteResponse{}
	case models.OpGenerateFile:
		resp = &GenerateFileResponse{}
	case "":
		return nil, fmt.Errorf("%w: missing operation", ErrMalformedResponse)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, envelope.Op)
	}

	if err := json.Unmarshal(raw, resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, envelope.Op, err)
	}
	if err := validate.Struct(resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, envelope.Op, err)
	}
	return resp, nil
}
