package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quillmate/quillmate-cli/pkg/composer"
	"github.com/quillmate/quillmate-cli/pkg/llm"
	"github.com/quillmate/quillmate-cli/pkg/observability"
	"github.com/quillmate/quillmate-cli/pkg/reconcile"
)

const enhanceOperation = "enhance"

var validate = validator.New()

// EnhanceRequest is the /enhance wire request.
type EnhanceRequest struct {
	SelectedText string `json:"selectedText" binding:"required"`
	Prompt       string `json:"prompt" binding:"required"`
	Context      string `json:"context,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// Change kinds reported by an enhancement.
const (
	ChangeAddition     = "addition"
	ChangeDeletion     = "deletion"
	ChangeModification = "modification"
)

// EnhanceChange describes one modification the model made.
type EnhanceChange struct {
	Type        string `json:"type" validate:"omitempty,oneof=addition deletion modification"`
	Description string `json:"description"`
}

// EnhanceResponse is the /enhance wire response.
type EnhanceResponse struct {
	EnhancedText string          `json:"enhancedText" validate:"required"`
	Explanation  string          `json:"explanation"`
	Changes      []EnhanceChange `json:"changes" validate:"dive"`
}

// Enhance rewrites a selection directly, without line reconciliation.
func (a *Assistant) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	if req.SelectedText == "" || req.Prompt == "" {
		return nil, fmt.Errorf("%w: selectedText and prompt are required", ErrEmptyMessage)
	}

	prompt := composer.ComposeEnhance(composer.EnhanceInput{
		SelectedText: req.SelectedText,
		Prompt:       req.Prompt,
		Context:      req.Context,
		Filename:     req.Filename,
	})

	logger := a.logger.With("operation", enhanceOperation, "filename", req.Filename)
	logger.Info("enhance request", "selection_chars", len(req.SelectedText))

	start := time.Now()
	raw, err := a.completer.Complete(ctx, llm.Request{
		System: prompt.System,
		User:   prompt.User,
		JSON:   true,
		Model:  a.model,
	})
	if err != nil {
		a.metrics.ObserveAssistant(enhanceOperation, observability.OutcomeError, time.Since(start))
		logger.Error("completion failed", "error", err)
		return nil, fmt.Errorf("completing %s: %w", enhanceOperation, err)
	}

	var resp EnhanceResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		a.metrics.ObserveAssistant(enhanceOperation, observability.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", reconcile.ErrMalformedResponse, enhanceOperation, err)
	}
	if err := validate.Struct(&resp); err != nil {
		a.metrics.ObserveAssistant(enhanceOperation, observability.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", reconcile.ErrMalformedResponse, enhanceOperation, err)
	}
	if resp.Changes == nil {
		resp.Changes = []EnhanceChange{}
	}

	a.metrics.ObserveAssistant(enhanceOperation, observability.OutcomeSuccess, time.Since(start))
	logger.Info("enhance complete", "changes", len(resp.Changes))
	return &resp, nil
}
