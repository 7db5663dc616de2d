// Package ocr extracts chat conversations from screenshots and screen
// recordings using a hosted vision model.
//
// Every Process* call makes exactly one model request and returns the raw
// response text. ParseResult turns that text into a ConversationRecord.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/chatshot/llm"
	"github.com/richinex/chatshot/media"
	"github.com/richinex/chatshot/model"
	"github.com/richinex/chatshot/prompt"
	"github.com/richinex/chatshot/video"
)

// Client sends images and video frames to a vision model.
type Client struct {
	llm     *llm.Client
	sampler *video.Sampler
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSampler sets the frame sampler used by ProcessVideoFile.
func WithSampler(s *video.Sampler) Option {
	return func(c *Client) { c.sampler = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client over provider. A nil provider means no
// credential was available.
func NewClient(provider llm.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, model.NewOpError("new_client", "", model.ErrMissingCredential, nil)
	}
	c := &Client{llm: llm.NewClient(provider)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.sampler == nil {
		c.sampler = video.NewSampler(nil, video.WithLogger(c.logger))
	}
	c.logger = c.logger.With("component", "ocr")
	return c, nil
}

// Provider returns the underlying model provider.
func (c *Client) Provider() llm.Provider {
	return c.llm.Provider()
}

// CallOption adjusts the prompt of a single call.
type CallOption func(*callConfig)

type callConfig struct {
	template prompt.Template
	custom   string
	format   media.Format
	actions  bool
}

// WithTemplate selects a chat extraction template and the chat-layout
// system instruction.
func WithTemplate(t prompt.Template) CallOption {
	return func(cfg *callConfig) { cfg.template = t }
}

// WithPrompt sends text verbatim in place of any template.
func WithPrompt(text string) CallOption {
	return func(cfg *callConfig) { cfg.custom = text }
}

// WithFormat overrides image format detection for local files.
func WithFormat(f media.Format) CallOption {
	return func(cfg *callConfig) { cfg.format = f }
}

// WithActions also asks for the user_actions narration.
func WithActions() CallOption {
	return func(cfg *callConfig) { cfg.actions = true }
}

func newCallConfig(opts []CallOption) callConfig {
	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// messages builds the system and user messages. fallback is the prompt used
// when neither a template nor custom text was given.
func (cfg callConfig) messages(fallback string, blocks ...llm.ContentPart) []llm.ChatMessage {
	text := fallback
	var msgs []llm.ChatMessage
	switch {
	case cfg.template != "" && cfg.template != prompt.Custom:
		msgs = append(msgs, llm.SystemMessage(prompt.SystemInstruction))
		text = prompt.Build(cfg.template, cfg.custom)
	case cfg.custom != "":
		text = cfg.custom
	}
	if cfg.actions {
		text = prompt.WithActions(text)
	}

	parts := make([]llm.ContentPart, 0, len(blocks)+1)
	parts = append(parts, blocks...)
	parts = append(parts, llm.TextPart(text))
	return append(msgs, llm.UserParts(parts...))
}

// ProcessURLImage describes one remote image.
func (c *Client) ProcessURLImage(ctx context.Context, url string, opts ...CallOption) (string, error) {
	cfg := newCallConfig(opts)
	return c.call(ctx, "process_url_image", url, cfg.messages(prompt.DescribeImage, llm.ImagePart(url)))
}

// ProcessLocalImage describes one local image, inlined as a data URI.
func (c *Client) ProcessLocalImage(ctx context.Context, path string, opts ...CallOption) (string, error) {
	cfg := newCallConfig(opts)
	part, err := media.Resolve(media.Parse(path), cfg.format)
	if err != nil {
		return "", err
	}
	return c.call(ctx, "process_local_image", path, cfg.messages(prompt.DescribeImage, part))
}

// ProcessImage classifies ref as remote or local and describes it.
func (c *Client) ProcessImage(ctx context.Context, ref string, opts ...CallOption) (string, error) {
	if media.Parse(ref).IsRemote() {
		return c.ProcessURLImage(ctx, ref, opts...)
	}
	return c.ProcessLocalImage(ctx, ref, opts...)
}

// ProcessMultipleImages sends refs, remote and local mixed, in order in one request.
func (c *Client) ProcessMultipleImages(ctx context.Context, refs []string, opts ...CallOption) (string, error) {
	if len(refs) == 0 {
		return "", fmt.Errorf("process_multiple_images: no images")
	}
	cfg := newCallConfig(opts)
	parts := make([]llm.ContentPart, 0, len(refs))
	for _, ref := range refs {
		part, err := media.Resolve(media.Parse(ref), cfg.format)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return c.call(ctx, "process_multiple_images", fmt.Sprintf("%d images", len(refs)), cfg.messages(prompt.DescribeImages, parts...))
}

// ProcessVideoFrames sends frames as one ordered video block.
func (c *Client) ProcessVideoFrames(ctx context.Context, frames []string, opts ...CallOption) (string, error) {
	if len(frames) == 0 {
		return "", fmt.Errorf("process_video_frames: no frames")
	}
	cfg := newCallConfig(opts)
	resolved := make([]string, 0, len(frames))
	for _, frame := range frames {
		uri, err := media.ResolveString(media.Parse(frame), cfg.format)
		if err != nil {
			return "", err
		}
		resolved = append(resolved, uri)
	}
	return c.call(ctx, "process_video_frames", fmt.Sprintf("%d frames", len(frames)), cfg.messages(prompt.DescribeVideo, llm.VideoPart(resolved)))
}

// ProcessVideoFile samples path and sends the frames as one video block.
// The video chat template is used unless opts select another prompt.
// Sampled frames are removed before returning, on success or failure.
func (c *Client) ProcessVideoFile(ctx context.Context, path string, sampling video.Options, opts ...CallOption) (string, error) {
	set, err := c.sampler.Sample(ctx, path, sampling)
	if err != nil {
		return "", err
	}
	defer set.Cleanup()

	cfg := newCallConfig(append([]CallOption{WithTemplate(prompt.Video)}, opts...))
	frames := make([]string, 0, set.Len())
	for _, frame := range set.Frames {
		uri, err := media.DataURI(frame, media.FormatJPEG)
		if err != nil {
			return "", err
		}
		frames = append(frames, uri)
	}
	return c.call(ctx, "process_video_file", path, cfg.messages(prompt.DescribeVideo, llm.VideoPart(frames)))
}

// call performs the single model round trip.
func (c *Client) call(ctx context.Context, op, ref string, messages []llm.ChatMessage) (string, error) {
	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "op", op, "ref", ref)
	logger.Info("sending request", "provider", c.llm.Provider().Name(), "model", c.llm.Provider().Model())

	start := time.Now()
	content, usage, err := c.llm.ChatJSON(ctx, messages)
	if err != nil {
		logger.Error("request failed", "error", err, "latency", time.Since(start))
		return "", model.NewOpError(op, ref, model.ErrRemoteCall, err)
	}

	attrs := []any{"latency", time.Since(start), "chars", len(content)}
	if usage != nil {
		attrs = append(attrs, "prompt_tokens", usage.PromptTokens, "completion_tokens", usage.CompletionTokens)
	}
	logger.Info("received response", attrs...)
	return content, nil
}
