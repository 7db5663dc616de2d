// Package llm provides vision LLM provider abstractions.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Conversion of multimodal content parts to the provider's wire format
// - Provider-specific error handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for vision LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends a chat completion request.
	Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error)

	// ChatWithFormat sends a chat completion request with response format.
	ChatWithFormat(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (LLMResponse, error)
}
