// LLMClient - Simple wrapper around providers.

package llm

import (
	"context"
)

// Client wraps a Provider with a simple interface.
type Client struct {
	provider Provider
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// ChatJSON requests a JSON object response and returns content with token usage.
func (c *Client) ChatJSON(ctx context.Context, messages []ChatMessage) (string, *TokenUsage, error) {
	response, err := c.provider.ChatWithFormat(ctx, messages, NewJSONObjectFormat())
	if err != nil {
		return "", nil, err
	}
	return response.Content, response.Usage, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
