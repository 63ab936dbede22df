package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/utils"
)

const defaultModel = "gpt-4o"

// OpenAIClient completes requests against the OpenAI chat API or any
// server speaking the same protocol.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOpenAIClient builds a client. It fails with ErrMissingCredentials
// when cfg has no API key.
func NewOpenAIClient(cfg Config, logger *slog.Logger) (*OpenAIClient, error) {
	logger = logging.OrDiscard(logger)
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredentials
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	logger.Info("initializing OpenAI client",
		"model", model,
		"base_url", clientCfg.BaseURL,
		"api_key_present", true)

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		limiter: newLimiter(cfg.RequestsPerMinute),
		logger:  logger,
	}, nil
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), min(perMinute, 3))
}

// Model returns the default model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete implements Completer.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	tokens := utils.EstimateTokens(req.System) + utils.EstimateTokens(req.User)
	if limit := utils.ContextWindow(model); tokens > limit {
		return "", fmt.Errorf("%w: %s against a limit of %d", ErrPromptTooLarge, utils.FormatTokenCount(tokens), limit)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	c.logger.Debug("sending completion", "model", model, "estimated_tokens", tokens, "json", req.JSON)

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		c.logger.Error("completion failed", "model", model, "error", err)
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.logger.Warn("completion returned no content", "model", model)
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("completion received",
		"model", model,
		"finish_reason", resp.Choices[0].FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}
