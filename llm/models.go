// Package llm provides shared data models for vision LLM providers.
package llm

// PartType identifies one unit of a multimodal message.
type PartType string

const (
	// PartText is a plain text block.
	PartText PartType = "text"
	// PartImageURL is an image referenced by http(s) URL or data URI.
	PartImageURL PartType = "image_url"
	// PartVideo is an ordered frame sequence sent as one video block.
	PartVideo PartType = "video"
)

// ContentPart is one content block of a multimodal message.
type ContentPart struct {
	Type   PartType `json:"type"`
	Text   string   `json:"text,omitempty"`
	URL    string   `json:"url,omitempty"`    // For PartImageURL
	Frames []string `json:"frames,omitempty"` // For PartVideo: URLs or data URIs, in order
}

// TextPart creates a text content block.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart creates an image content block from a URL or data URI.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImageURL, URL: url}
}

// VideoPart creates a video content block from ordered frame URLs or data URIs.
func VideoPart(frames []string) ContentPart {
	return ContentPart{Type: PartVideo, Frames: frames}
}

// ChatMessage represents a chat message with role and content.
// Parts, when set, take precedence over Content.
type ChatMessage struct {
	Role    string        `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []ContentPart `json:"parts,omitempty"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "system",
		Content: content,
	}
}

// UserParts creates a multimodal user message.
func UserParts(parts ...ContentPart) ChatMessage {
	return ChatMessage{
		Role:  "user",
		Parts: parts,
	}
}

// expandVideoParts replaces each video block with one image block per frame,
// for providers that have no native frame-sequence block.
func expandVideoParts(parts []ContentPart) []ContentPart {
	out := make([]ContentPart, 0, len(parts))
	for _, part := range parts {
		if part.Type != PartVideo {
			out = append(out, part)
			continue
		}
		for _, frame := range part.Frames {
			out = append(out, ImagePart(frame))
		}
	}
	return out
}

// hasVideoPart reports whether any message carries a video block.
func hasVideoPart(messages []ChatMessage) bool {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if part.Type == PartVideo {
				return true
			}
		}
	}
	return false
}

// LLMResponse represents a response from an LLM provider.
type LLMResponse struct {
	Content string
	Usage   *TokenUsage
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

// ResponseFormatType defines the type of response format.
type ResponseFormatType string

const (
	ResponseFormatText       ResponseFormatType = "text"
	ResponseFormatJSONObject ResponseFormatType = "json_object"
)

// ResponseFormat specifies how the LLM should format its response.
type ResponseFormat struct {
	Type ResponseFormatType `json:"type"`
}

// NewJSONObjectFormat creates a JSON object response format.
func NewJSONObjectFormat() *ResponseFormat {
	return &ResponseFormat{Type: ResponseFormatJSONObject}
}

// wantsJSON reports whether a JSON object response was requested.
func wantsJSON(format *ResponseFormat) bool {
	return format != nil && format.Type == ResponseFormatJSONObject
}
