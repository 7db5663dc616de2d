package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/richinex/chatshot/model"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1,
	"model": "qwen-vl-max-2025-01-25",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"user_messages\":[\"hi\"],\"assistant_messages\":[\"hello\"]}"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

// capturedRequest is the decoded body of a chat completion request.
type capturedRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

type capturedPart struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url"`
	Video []string `json:"video"`
}

func newCompletionServer(t *testing.T, status int, body string, captured *capturedRequest, authHeader *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if authHeader != nil {
			*authHeader = r.Header.Get("Authorization")
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func userParts(t *testing.T, req capturedRequest) []capturedPart {
	t.Helper()
	for _, msg := range req.Messages {
		if msg.Role != "user" {
			continue
		}
		var parts []capturedPart
		if err := json.Unmarshal(msg.Content, &parts); err != nil {
			t.Fatalf("user content is not a parts array: %v", err)
		}
		return parts
	}
	t.Fatal("no user message in request")
	return nil
}

func TestOpenAIProviderImageRequest(t *testing.T) {
	var captured capturedRequest
	server := newCompletionServer(t, http.StatusOK, completionBody, &captured, nil)

	provider := NewOpenAIProvider("sk-test", server.URL, "gpt-4o", 256, 0.1)
	resp, err := provider.ChatWithFormat(context.Background(), []ChatMessage{
		SystemMessage("system text"),
		UserParts(ImagePart("https://example.com/a.png"), TextPart("extract")),
	}, NewJSONObjectFormat())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(resp.Content, "user_messages") {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Errorf("expected total tokens 15, got %+v", resp.Usage)
	}
	if captured.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", captured.Model)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", captured.ResponseFormat)
	}

	parts := userParts(t, captured)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].Type != "image_url" || parts[0].ImageURL == nil || parts[0].ImageURL.URL != "https://example.com/a.png" {
		t.Errorf("unexpected image part: %+v", parts[0])
	}
	if parts[1].Type != "text" || parts[1].Text != "extract" {
		t.Errorf("expected trailing text part, got %+v", parts[1])
	}
}

func TestOpenAIProviderExpandsVideoFrames(t *testing.T) {
	var captured capturedRequest
	server := newCompletionServer(t, http.StatusOK, completionBody, &captured, nil)

	provider := NewOpenAIProvider("sk-test", server.URL, "gpt-4o", 256, 0.1)
	frames := []string{"https://example.com/1.jpg", "https://example.com/2.jpg", "https://example.com/3.jpg"}
	_, err := provider.Chat(context.Background(), []ChatMessage{
		UserParts(VideoPart(frames), TextPart("describe")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := userParts(t, captured)
	if len(parts) != 4 {
		t.Fatalf("expected 3 image parts and 1 text part, got %d", len(parts))
	}
	for i, frame := range frames {
		if parts[i].Type != "image_url" || parts[i].ImageURL.URL != frame {
			t.Errorf("part %d: expected image %q, got %+v", i, frame, parts[i])
		}
	}
}

func TestDashScopeProviderSendsVideoBlock(t *testing.T) {
	var captured capturedRequest
	var auth string
	server := newCompletionServer(t, http.StatusOK, completionBody, &captured, &auth)

	provider := NewDashScopeProvider("sk-dash", server.URL, ModelQwenVLMax, 256, 0.1)
	frames := []string{"data:image/jpeg;base64,AAAA", "data:image/jpeg;base64,BBBB"}
	resp, err := provider.ChatWithFormat(context.Background(), []ChatMessage{
		SystemMessage("system text"),
		UserParts(VideoPart(frames), TextPart("describe")),
	}, NewJSONObjectFormat())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Bearer sk-dash" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
	if resp.Usage == nil || resp.Usage.PromptTokens != 10 {
		t.Errorf("expected prompt tokens 10, got %+v", resp.Usage)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", captured.ResponseFormat)
	}

	parts := userParts(t, captured)
	if len(parts) != 2 {
		t.Fatalf("expected video part and text part, got %d", len(parts))
	}
	if parts[0].Type != "video" || len(parts[0].Video) != 2 || parts[0].Video[1] != frames[1] {
		t.Errorf("unexpected video part: %+v", parts[0])
	}
	if parts[1].Type != "text" {
		t.Errorf("expected trailing text part, got %+v", parts[1])
	}
}

func TestDashScopeVideoErrorDecoded(t *testing.T) {
	body := `{"error": {"message": "Incorrect API key provided.", "type": "invalid_request_error", "code": "invalid_api_key"}}`
	server := newCompletionServer(t, http.StatusUnauthorized, body, nil, nil)

	testKey := "sk-test-invalid-key-12345xyz"
	provider := NewDashScopeProvider(testKey, server.URL, ModelQwenVLMax, 256, 0.1)
	_, err := provider.Chat(context.Background(), []ChatMessage{
		UserParts(VideoPart([]string{"https://example.com/1.jpg"}), TextPart("describe")),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *openai.APIError, got %T: %v", err, err)
	}
	if apiErr.HTTPStatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.HTTPStatusCode)
	}
	if strings.Contains(err.Error(), testKey) {
		t.Errorf("error message leaked API key: %v", err)
	}
}

// TestOpenAIErrorNoAPIKeyLeak verifies OpenAI errors don't contain API keys
func TestOpenAIErrorNoAPIKeyLeak(t *testing.T) {
	body := `{"error": {"message": "Incorrect API key provided.", "type": "invalid_request_error", "code": "invalid_api_key"}}`
	server := newCompletionServer(t, http.StatusUnauthorized, body, nil, nil)

	testKey := "sk-test-invalid-key-12345xyz"
	provider := NewOpenAIProvider(testKey, server.URL, "gpt-4o", 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.Chat(ctx, []ChatMessage{UserParts(TextPart("test"))})
	if err == nil {
		t.Fatal("expected error with invalid API key")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("OpenAI error message leaked API key: %v", errStr)
	}
	if strings.Contains(errStr, "Authorization:") {
		t.Errorf("OpenAI error exposed Authorization header: %v", errStr)
	}
}

// TestGeminiInitErrorPreserved verifies Gemini returns initialization errors
func TestGeminiInitErrorPreserved(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	provider := NewGeminiProvider("", ModelGeminiFlash25, 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.Chat(ctx, []ChatMessage{UserParts(TextPart("test"))})
	if err == nil {
		t.Fatal("expected initialization error to be returned, got nil")
	}
	if !strings.Contains(err.Error(), "failed to initialize") {
		t.Errorf("expected initialization error, got: %v", err)
	}
}

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		in   string
		want ProviderType
	}{
		{"", ProviderDashScope},
		{"qwen", ProviderDashScope},
		{"DashScope", ProviderDashScope},
		{"gpt", ProviderOpenAI},
		{"claude", ProviderAnthropic},
		{"google", ProviderGemini},
	}
	for _, tt := range tests {
		got, err := ParseProviderType(tt.in)
		if err != nil {
			t.Errorf("ParseProviderType(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseProviderType("unknown"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuilderMissingKey(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "")

	if _, err := ProviderDashScope.FromEnv(); !errors.Is(err, model.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential from FromEnv, got %v", err)
	}
	if _, err := ProviderDashScope.APIKey(""); !errors.Is(err, model.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential from APIKey, got %v", err)
	}
}

func TestBuilderDefaults(t *testing.T) {
	provider, err := ProviderDashScope.APIKey("sk-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "dashscope" {
		t.Errorf("expected name dashscope, got %q", provider.Name())
	}
	if provider.Model() != ModelQwenVLMax {
		t.Errorf("expected model %q, got %q", ModelQwenVLMax, provider.Model())
	}
	compat, ok := provider.(*OpenAIProvider)
	if !ok {
		t.Fatalf("expected *OpenAIProvider, got %T", provider)
	}
	if compat.BaseURL() != DashScopeBaseURL {
		t.Errorf("expected base URL %q, got %q", DashScopeBaseURL, compat.BaseURL())
	}
}
