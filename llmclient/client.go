package llmclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AnubhawM/roi-calculator/config"
	apperrors "github.com/AnubhawM/roi-calculator/errors"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client wraps the Azure OpenAI chat-completion API. One outbound call per
// user action; retries are bounded and backed off with jitter.
type Client struct {
	cfg    *config.Config
	api    *openai.Client
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Client {
	apiCfg := openai.DefaultAzureConfig(cfg.AzureOpenAIAPIKey, cfg.AzureOpenAIEndpoint)
	if cfg.AzureOpenAIAPIVersion != "" {
		apiCfg.APIVersion = cfg.AzureOpenAIAPIVersion
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.LLMRequestTimeout}

	return &Client{
		cfg:    cfg,
		api:    openai.NewClientWithConfig(apiCfg),
		logger: logger,
	}
}

// Complete performs a non-streaming chat completion against the configured
// deployment and returns the trimmed response text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.AzureOpenAIDeployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   c.cfg.MaxCompletionTokens,
		Temperature: float32(c.cfg.Temperature),
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			// Do not retry on context cancellation/deadline
			if ctx.Err() != nil {
				return "", apperrors.WrapError(ctx.Err(), "chat completion canceled")
			}
			lastErr = err
			if !retryable(err) {
				return "", apperrors.WrapError(apperrors.ErrUpstreamUnavailable, err.Error())
			}
			c.logger.Warn("Upstream AI call failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			c.backoffSleep(attempt)
			continue
		}

		if len(resp.Choices) == 0 {
			return "", apperrors.WrapError(apperrors.ErrMalformedResponse, "no response choices")
		}
		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return "", apperrors.WrapError(apperrors.ErrMalformedResponse, "empty response content")
		}
		return content, nil
	}

	if lastErr == nil {
		lastErr = errors.New("retries exhausted")
	}
	return "", apperrors.WrapErrorf(apperrors.ErrUpstreamUnavailable, "no response after %d attempts: %v", c.cfg.MaxRetries, lastErr)
}

// Healthy probes the upstream service by listing available models.
func (c *Client) Healthy(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return apperrors.WrapError(apperrors.ErrUpstreamUnavailable, err.Error())
	}
	return nil
}

// retryable reports whether an upstream failure is worth another attempt:
// rate limiting, server-side errors, and transport failures qualify.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return true
}

func (c *Client) backoffSleep(attempt int) {
	// Exponential backoff with jitter
	base := c.cfg.RetryDelaySeconds
	if base <= 0 {
		base = time.Second // config normalization should prevent this
	}
	d := base * time.Duration(1<<attempt)
	jitter := time.Duration(time.Now().UnixNano() % int64(d/4+1))
	time.Sleep(d - d/8 + jitter)
}
