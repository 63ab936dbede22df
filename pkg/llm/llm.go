// Package llm talks to chat-completion backends.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

var (
	// ErrMissingCredentials means no API key is configured.
	ErrMissingCredentials = errors.New("no API key configured")
	// ErrEmptyCompletion means the backend answered without any content.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrPromptTooLarge means the prompt would not fit the model's window.
	ErrPromptTooLarge = errors.New("prompt exceeds the model context window")
)

// Request is one system+user exchange.
type Request struct {
	System string
	User   string
	// JSON asks the backend for a single JSON object.
	JSON bool
	// Model overrides the client's configured model when set.
	Model string
}

// Completer turns a request into the backend's text answer.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config configures the OpenAI-compatible client.
type Config struct {
	APIKey            string
	Model             string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// ConfigFromSettings maps the persisted settings onto a client config.
func ConfigFromSettings(s models.OpenAISettings) Config {
	return Config{
		APIKey:            s.APIKey,
		Model:             s.SelectedModel,
		BaseURL:           s.BaseURL,
		Timeout:           s.Timeout,
		RequestsPerMinute: s.RequestsPerMinute,
	}
}

// Unavailable is a Completer that always fails with Err, used when no
// backend could be configured.
type Unavailable struct {
	Err error
}

// Complete implements Completer.
func (u Unavailable) Complete(context.Context, Request) (string, error) {
	return "", u.Err
}

// New builds the configured backend, or an Unavailable completer carrying
// the configuration error.
func New(cfg Config, logger *slog.Logger) Completer {
	client, err := NewOpenAIClient(cfg, logger)
	if err != nil {
		return Unavailable{Err: err}
	}
	return client
}
