package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds LLM client configuration.
type Config struct {
	Provider       string        // "openai" or "anthropic"
	APIKey         string        // Required: API key for the provider
	BaseURL        string        // Optional: custom API endpoint
	Model          string        // Model name (e.g., "gpt-4o", "claude-sonnet-4-5-20250514")
	MaxAttempts    int           // 1 (or 0) disables retries
	RetryBaseDelay time.Duration // First backoff delay, doubled on every attempt
}

// TextClient completes a single prompt into free text. Analyzers own the
// prompt wording and the interpretation of the returned text.
type TextClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// CompletionRequest is a single-turn completion.
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  *float64 // nil = model default
}

// CompletionResponse carries the generated text and token usage.
type CompletionResponse struct {
	Text             string
	FinishReason     string // "stop", "length"
	PromptTokens     int
	CompletionTokens int
}

// NewTextClient creates a TextClient for cfg.Provider, defaulting to OpenAI.
// When cfg.MaxAttempts > 1 the client is wrapped with WithRetry.
func NewTextClient(cfg Config) (TextClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	var (
		client TextClient
		err    error
	)
	switch provider {
	case ProviderOpenAI:
		client, err = newOpenAIClient(cfg)
	case ProviderAnthropic:
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxAttempts > 1 {
		client = WithRetry(client, RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
		})
	}
	return client, nil
}

// GenerateSchema reflects a JSON schema for T. Analyzers embed it in prompts so
// the model knows the exact response shape.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

// IsRetryable reports whether err is worth another attempt: rate limits,
// provider 5xx responses and network failures are, client errors and context
// cancellation are not.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	status := 0
	var openaiErr *openai.Error
	var anthropicErr *anthropic.Error
	switch {
	case errors.As(err, &openaiErr):
		status = openaiErr.StatusCode
	case errors.As(err, &anthropicErr):
		status = anthropicErr.StatusCode
	default:
		slog.WarnContext(ctx, "llm network error, will retry", "error", err)
		return true
	}

	switch {
	case status == 429:
		slog.WarnContext(ctx, "llm rate limited, will retry", "status_code", status)
		return true
	case status >= 500:
		slog.WarnContext(ctx, "llm server error, will retry", "status_code", status)
		return true
	default:
		slog.ErrorContext(ctx, "llm client error, not retryable", "status_code", status)
		return false
	}
}
