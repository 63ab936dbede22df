// Package assistant runs chat and enhance requests end to end: route the
// instruction, compose the prompt, call the model, decode and validate the
// answer, and reconcile it against the caller's line snapshot.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quillmate/quillmate-cli/pkg/composer"
	"github.com/quillmate/quillmate-cli/pkg/intent"
	"github.com/quillmate/quillmate-cli/pkg/llm"
	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/observability"
	"github.com/quillmate/quillmate-cli/pkg/reconcile"
)

// ErrEmptyMessage rejects a chat request without an instruction.
var ErrEmptyMessage = errors.New("message is required")

// GenericErrorMessage is what UserMessage says about errors it does not
// recognise.
const GenericErrorMessage = "Sorry, I encountered an error processing your request."

// fallbackMessage answers a completion that came back empty.
const fallbackMessage = "Unable to process request"

// ChatRequest is the /chat wire request.
type ChatRequest struct {
	Message      string        `json:"message" binding:"required"`
	LineMetadata []models.Line `json:"lineMetadata"`
	SelectedText string        `json:"selectedText,omitempty"`
	FullContent  string        `json:"fullContent"`
	Filename     string        `json:"filename"`
}

// EnhancedText wraps a replacement line snapshot.
type EnhancedText struct {
	Lines []models.Line `json:"lines"`
}

// ChatResponse is the /chat wire response. EnhancedText is null unless the
// document must change.
type ChatResponse struct {
	Message       string                   `json:"message"`
	EnhancedText  *EnhancedText            `json:"enhancedText"`
	Analysis      *models.Analysis         `json:"analysis,omitempty"`
	Error         bool                     `json:"error,omitempty"`
	Operation     models.Operation         `json:"operation,omitempty"`
	GeneratedFile *reconcile.GeneratedFile `json:"generatedFile,omitempty"`
	SpacersAdded  int                      `json:"spacersAdded,omitempty"`

	Intent intent.Intent    `json:"-"`
	Result reconcile.Result `json:"-"`
}

// Assistant orchestrates requests against one Completer.
type Assistant struct {
	completer  llm.Completer
	parser     *intent.Parser
	reconciler *reconcile.Reconciler
	metrics    *observability.Metrics
	logger     *slog.Logger
	model      string
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithParser replaces the default intent rules.
func WithParser(p *intent.Parser) Option {
	return func(a *Assistant) { a.parser = p }
}

// WithReconciler replaces the default reconciler.
func WithReconciler(r *reconcile.Reconciler) Option {
	return func(a *Assistant) { a.reconciler = r }
}

// WithMetrics records request metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Assistant) { a.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// WithModel overrides the completer's default model per request.
func WithModel(model string) Option {
	return func(a *Assistant) { a.model = model }
}

// New creates an assistant over completer.
func New(completer llm.Completer, opts ...Option) *Assistant {
	a := &Assistant{
		completer:  completer,
		parser:     intent.NewParser(),
		reconciler: reconcile.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrDiscard(a.logger)
	return a
}

// Chat answers one instruction. Transport and validation failures are
// returned as errors and never carry a mutation; a count mismatch is a
// successful call whose response has Error set.
func (a *Assistant) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	it := a.parser.Parse(req.Message)
	logger := a.logger.With("operation", it.Operation, "rule", it.Rule, "filename", req.Filename)
	logger.Info("chat request", "lines", len(req.LineMetadata), "has_selection", req.SelectedText != "")

	prompt, err := composer.Compose(composer.Input{
		Message:      req.Message,
		Filename:     req.Filename,
		FullContent:  req.FullContent,
		SelectedText: req.SelectedText,
		Lines:        req.LineMetadata,
		Intent:       it,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := a.completer.Complete(ctx, llm.Request{
		System: prompt.System,
		User:   prompt.User,
		JSON:   true,
		Model:  a.model,
	})
	if errors.Is(err, llm.ErrEmptyCompletion) {
		logger.Warn("empty completion, answering with fallback")
		a.metrics.ObserveAssistant(string(it.Operation), observability.OutcomeSuccess, time.Since(start))
		return toChatResponse(it, reconcile.Result{
			Kind:      reconcile.KindMessage,
			Operation: models.OpAnalyzeText,
			Message:   fallbackMessage,
		}), nil
	}
	if err != nil {
		a.metrics.ObserveAssistant(string(it.Operation), observability.OutcomeError, time.Since(start))
		logger.Error("completion failed", "error", err)
		return nil, fmt.Errorf("completing %s: %w", it.Operation, err)
	}

	resp, err := reconcile.Decode([]byte(raw))
	if err != nil {
		a.metrics.ObserveAssistant(string(it.Operation), observability.OutcomeError, time.Since(start))
		logger.Warn("rejected model response", "error", err)
		return nil, err
	}

	result := a.reconciler.Reconcile(req.LineMetadata, resp, reconcile.Request{
		Instruction:    req.Message,
		RequestedCount: it.RequestedCount,
		AfterLine:      it.AfterLine,
	})

	outcome := observability.OutcomeSuccess
	if result.Kind == reconcile.KindRejected {
		outcome = observability.OutcomeRejected
	}
	a.metrics.ObserveAssistant(string(resp.Operation()), outcome, time.Since(start))
	a.metrics.ObserveReconcile(string(resp.Operation()), result.Kind.String())
	logger.Info("chat reconciled",
		"response_operation", resp.Operation(),
		"kind", result.Kind.String(),
		"lines_after", len(result.Lines),
		"spacers_added", result.SpacersAdded)

	return toChatResponse(it, result), nil
}

func toChatResponse(it intent.Intent, result reconcile.Result) *ChatResponse {
	out := &ChatResponse{
		Message:   result.Message,
		Operation: result.Operation,
		Analysis:  result.Analysis,
		Intent:    it,
		Result:    result,
	}
	switch result.Kind {
	case reconcile.KindMutation:
		out.EnhancedText = &EnhancedText{Lines: result.Lines}
		out.SpacersAdded = result.SpacersAdded
	case reconcile.KindRejected:
		out.Error = true
	case reconcile.KindNewFile:
		out.GeneratedFile = result.File
	}
	return out
}

// UserMessage turns any Chat or Enhance failure into text for the chat
// pane.
func UserMessage(err error) string {
	var mismatch *reconcile.CountMismatchError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &mismatch):
		return mismatch.Error()
	case errors.Is(err, llm.ErrMissingCredentials):
		return "OpenAI API key not configured. Please add your API key in settings."
	case errors.Is(err, llm.ErrPromptTooLarge):
		return "The document is too large for the selected model. Select fewer lines and try again."
	case errors.Is(err, reconcile.ErrMalformedResponse), errors.Is(err, reconcile.ErrUnknownOperation):
		return "Sorry, I couldn't understand the assistant's response. Please try again."
	case errors.Is(err, ErrEmptyMessage):
		return "Please type an instruction first."
	case errors.Is(err, context.Canceled):
		return "Request cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The assistant took too long to respond. Please try again."
	}
	return GenericErrorMessage
}
