// OpenAI-compatible Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and bearer authentication
// - Conversion of content parts to image_url / text blocks
// - Native "video" frame-sequence blocks for endpoints that accept them

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI-compatible
// chat completion endpoints.
type OpenAIProvider struct {
	name        string
	client      *openai.Client
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float32
	videoBlocks bool // endpoint accepts {"type":"video","video":[...]} blocks
}

// NewOpenAIProvider creates a new OpenAI provider.
// An empty baseURL selects the public OpenAI endpoint.
func NewOpenAIProvider(apiKey, baseURL, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return newCompatibleProvider("openai", apiKey, baseURL, model, maxTokens, temperature, false)
}

func newCompatibleProvider(name, apiKey, baseURL, model string, maxTokens uint32, temperature float32, videoBlocks bool) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &OpenAIProvider{
		name:        name,
		client:      openai.NewClientWithConfig(config),
		httpClient:  &http.Client{},
		apiKey:      apiKey,
		baseURL:     config.BaseURL,
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
		videoBlocks: videoBlocks,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Model returns the current model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// BaseURL returns the endpoint base URL.
func (p *OpenAIProvider) BaseURL() string {
	return p.baseURL
}

// Chat sends a chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	return p.ChatWithFormat(ctx, messages, nil)
}

// ChatWithFormat sends a chat completion request with optional response format.
func (p *OpenAIProvider) ChatWithFormat(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (LLMResponse, error) {
	if p.videoBlocks && hasVideoPart(messages) {
		return p.chatWithVideoBlocks(ctx, messages, format)
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	if format != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatType(format.Type),
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	return responseFromCompletion(resp), nil
}

// compatRequest mirrors openai.ChatCompletionRequest for payloads whose
// content blocks go-openai cannot express (video frame sequences).
type compatRequest struct {
	Model          string                               `json:"model"`
	Messages       []compatMessage                      `json:"messages"`
	MaxTokens      int                                  `json:"max_tokens,omitempty"`
	Temperature    float32                              `json:"temperature"`
	ResponseFormat *openai.ChatCompletionResponseFormat `json:"response_format,omitempty"`
}

type compatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []compatPart
}

type compatPart struct {
	Type     string                      `json:"type"`
	Text     string                      `json:"text,omitempty"`
	ImageURL *openai.ChatMessageImageURL `json:"image_url,omitempty"`
	Video    []string                    `json:"video,omitempty"`
}

// chatWithVideoBlocks posts the completion request directly so video blocks
// reach the endpoint intact. Responses and errors decode into go-openai types.
func (p *OpenAIProvider) chatWithVideoBlocks(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (LLMResponse, error) {
	req := compatRequest{
		Model:       p.model,
		Messages:    convertToCompatMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}
	if format != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatType(format.Type),
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return LLMResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		var errResp openai.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			errResp.Error.HTTPStatusCode = httpResp.StatusCode
			return LLMResponse{}, fmt.Errorf("chat completion failed: %w", errResp.Error)
		}
		return LLMResponse{}, fmt.Errorf("chat completion failed: status %d", httpResp.StatusCode)
	}

	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return LLMResponse{}, fmt.Errorf("decode response: %w", err)
	}

	return responseFromCompletion(resp), nil
}

func responseFromCompletion(resp openai.ChatCompletionResponse) LLMResponse {
	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{Content: content, Usage: usage}
}

// convertToOpenAIMessages converts our ChatMessage to openai.ChatCompletionMessage.
// Video blocks are expanded into one image_url block per frame.
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		if len(msg.Parts) == 0 {
			result[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
			continue
		}

		parts := expandVideoParts(msg.Parts)
		multi := make([]openai.ChatMessagePart, 0, len(parts))
		for _, part := range parts {
			switch part.Type {
			case PartText:
				multi = append(multi, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: part.Text,
				})
			case PartImageURL:
				multi = append(multi, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: part.URL},
				})
			}
		}
		result[i] = openai.ChatCompletionMessage{
			Role:         msg.Role,
			MultiContent: multi,
		}
	}
	return result
}

// convertToCompatMessages keeps video blocks as native frame sequences.
func convertToCompatMessages(messages []ChatMessage) []compatMessage {
	result := make([]compatMessage, len(messages))
	for i, msg := range messages {
		if len(msg.Parts) == 0 {
			result[i] = compatMessage{Role: msg.Role, Content: msg.Content}
			continue
		}

		parts := make([]compatPart, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			switch part.Type {
			case PartText:
				parts = append(parts, compatPart{Type: string(PartText), Text: part.Text})
			case PartImageURL:
				parts = append(parts, compatPart{
					Type:     string(PartImageURL),
					ImageURL: &openai.ChatMessageImageURL{URL: part.URL},
				})
			case PartVideo:
				parts = append(parts, compatPart{Type: string(PartVideo), Video: part.Frames})
			}
		}
		result[i] = compatMessage{Role: msg.Role, Content: parts}
	}
	return result
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
