// Package llm provides completion service clients.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the provider answers with no text.
var ErrEmptyCompletion = errors.New("completion returned no content")

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
	// SessionID scopes the request to one end user on the provider side.
	SessionID string
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new LLM client based on provider. baseURL only
// applies to OpenAI-compatible providers.
func NewClient(provider Provider, apiKey, baseURL, model string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model)
	case ProviderOpenAI:
		return NewOpenAICompatibleClient(apiKey, baseURL, model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// UserMessage builds a single-turn user message list.
func UserMessage(text string) []ChatMessage {
	return []ChatMessage{{Role: "user", Content: text}}
}

// unavailableClient fails every request. Used when no provider is configured.
type unavailableClient struct {
	reason error
}

// NewUnavailableClient returns a Client whose calls all fail with reason.
func NewUnavailableClient(reason error) Client {
	return &unavailableClient{reason: reason}
}

func (c *unavailableClient) Complete(context.Context, *CompletionRequest) (*CompletionResponse, error) {
	return nil, fmt.Errorf("completion unavailable: %w", c.reason)
}

func (c *unavailableClient) Name() string {
	return "unavailable"
}
