// Command execution for CLI commands.
//
// Information Hiding:
// - Test-mode dispatch and input fallbacks hidden
// - Output formatting hidden

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/richinex/chatshot/ocr"
	"github.com/richinex/chatshot/prompt"
	"github.com/richinex/chatshot/video"
)

// Sample remote images used by the demo modes.
const (
	SampleImageURL  = "https://help-static-aliyun-doc.aliyuncs.com/file-manage-files/zh-CN/20241022/emyrja/dog_and_girl.jpeg"
	SampleImageURL2 = "https://dashscope.oss-cn-beijing.aliyuncs.com/images/tiger.png"
)

// TestType selects which demo modes RunTests executes.
type TestType string

const (
	TestAll          TestType = "all"
	TestURL          TestType = "url"
	TestLocal        TestType = "local"
	TestUnified      TestType = "unified"
	TestMultiple     TestType = "multiple"
	TestVideo        TestType = "video"
	TestChatSingle   TestType = "chat_single"
	TestChatMultiple TestType = "chat_multiple"
	TestChatVideo    TestType = "chat_video"
	TestVideoFile    TestType = "video_file"
)

// testOrder is the order "all" runs the modes in.
var testOrder = []TestType{
	TestURL, TestLocal, TestUnified, TestMultiple, TestVideo,
	TestChatSingle, TestChatMultiple, TestChatVideo, TestVideoFile,
}

// TestTypeNames lists the accepted --test-type values.
func TestTypeNames() []string {
	names := []string{string(TestAll)}
	for _, t := range testOrder {
		names = append(names, string(t))
	}
	return names
}

// ParseTestType validates a --test-type value.
func ParseTestType(s string) (TestType, error) {
	t := TestType(strings.ToLower(s))
	if t == TestAll {
		return t, nil
	}
	for _, known := range testOrder {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown test type %q (choose from %s)", s, strings.Join(TestTypeNames(), ", "))
}

// Inputs are the media the demo modes run against, plus prompt overrides
// applied on top of each mode's default prompt.
type Inputs struct {
	LocalImages []string // first one is used for single-image modes
	VideoFile   string
	Frames      []string // video mode frames; sample URLs when empty
	Sampling    video.Options

	Template prompt.Template // empty keeps the mode's template
	Prompt   string
	Actions  bool
}

// Options returns defaults followed by the prompt overrides, so the
// overrides win.
func (in Inputs) Options(defaults ...ocr.CallOption) []ocr.CallOption {
	opts := append([]ocr.CallOption(nil), defaults...)
	if in.Template != "" {
		opts = append(opts, ocr.WithTemplate(in.Template))
	}
	if in.Prompt != "" {
		opts = append(opts, ocr.WithPrompt(in.Prompt))
	}
	if in.Actions {
		opts = append(opts, ocr.WithActions())
	}
	return opts
}

func (in Inputs) localImage() string {
	if len(in.LocalImages) == 0 {
		return ""
	}
	return in.LocalImages[0]
}

// Runner executes CLI operations against an ocr.Client.
type Runner struct {
	client *ocr.Client
	out    io.Writer
	logger *slog.Logger
}

// NewRunner creates a runner printing results to out.
func NewRunner(client *ocr.Client, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{client: client, out: out, logger: logger.With("component", "cli")}
}

// QuickProcess extracts the conversation from one video, prints it and
// optionally saves it as JSON.
func (r *Runner) QuickProcess(ctx context.Context, videoPath string, sampling video.Options, saveJSON string, quiet bool, opts ...ocr.CallOption) error {
	if !quiet {
		fmt.Fprintln(r.out, "=== Processing video file ===")
		fmt.Fprintf(r.out, "Video: %s\n", videoPath)
		fmt.Fprintf(r.out, "Frame interval: %d, max frames: %d\n", sampling.FrameInterval, sampling.MaxFrames)
		if saveJSON != "" {
			fmt.Fprintf(r.out, "Output JSON: %s\n", saveJSON)
		}
		fmt.Fprintln(r.out)
	}

	record, err := r.client.QuickProcess(ctx, videoPath, sampling, saveJSON, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.out, "Extracted conversation:")
	PrintRecord(r.out, record)
	if saveJSON != "" && !quiet {
		fmt.Fprintf(r.out, "\nSaved result to: %s\n", saveJSON)
	}
	return nil
}

// errSkipped marks a mode whose inputs were not supplied.
var errSkipped = errors.New("skipped")

// RunTests runs one demo mode, or every mode for TestAll. Modes missing
// their inputs are skipped with a warning; failures of the others are
// collected and returned together.
func (r *Runner) RunTests(ctx context.Context, testType TestType, in Inputs) error {
	modes := []TestType{testType}
	if testType == TestAll {
		modes = testOrder
	}

	var errs []error
	for _, mode := range modes {
		err := r.runMode(ctx, mode, in)
		switch {
		case errors.Is(err, errSkipped):
			r.logger.Warn("skipping test", "type", mode, "reason", err)
		case err != nil:
			r.logger.Error("test failed", "type", mode, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", mode, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) runMode(ctx context.Context, mode TestType, in Inputs) error {
	local := in.localImage()

	switch mode {
	case TestURL:
		r.header("Remote image", SampleImageURL)
		return r.printText(r.client.ProcessURLImage(ctx, SampleImageURL, in.Options()...))

	case TestLocal:
		if local == "" {
			return fmt.Errorf("%w: --local-image not set", errSkipped)
		}
		r.header("Local image", local)
		return r.printText(r.client.ProcessLocalImage(ctx, local, in.Options()...))

	case TestUnified:
		r.header("Unified interface", SampleImageURL)
		if err := r.printText(r.client.ProcessImage(ctx, SampleImageURL, in.Options()...)); err != nil {
			return err
		}
		if local == "" {
			r.logger.Warn("no local image, unified test covers the remote image only")
			return nil
		}
		r.header("Unified interface", local)
		return r.printText(r.client.ProcessImage(ctx, local, in.Options()...))

	case TestMultiple:
		urls := []string{SampleImageURL, SampleImageURL2}
		r.header("Multiple images", strings.Join(urls, ", "))
		if err := r.printText(r.client.ProcessMultipleImages(ctx, urls, in.Options()...)); err != nil {
			return err
		}
		if local == "" {
			return nil
		}
		mixed := []string{SampleImageURL, local}
		r.header("Mixed images", strings.Join(mixed, ", "))
		return r.printText(r.client.ProcessMultipleImages(ctx, mixed, in.Options()...))

	case TestVideo:
		frames := in.Frames
		if len(frames) == 0 {
			frames = []string{SampleImageURL, SampleImageURL2}
		}
		r.header("Video frames", fmt.Sprintf("%d frames", len(frames)))
		return r.printText(r.client.ProcessVideoFrames(ctx, frames, in.Options()...))

	case TestChatSingle:
		if local == "" {
			return fmt.Errorf("%w: --local-image not set", errSkipped)
		}
		r.header("Chat screenshot", local)
		return r.printRecord(r.client.ProcessImage(ctx, local, in.Options(ocr.WithTemplate(prompt.Single))...))

	case TestChatMultiple:
		if len(in.LocalImages) < 2 {
			return fmt.Errorf("%w: chat_multiple needs at least two --local-image values", errSkipped)
		}
		r.header("Chat screenshots", strings.Join(in.LocalImages, ", "))
		return r.printRecord(r.client.ProcessMultipleImages(ctx, in.LocalImages, in.Options(ocr.WithTemplate(prompt.Multiple))...))

	case TestChatVideo:
		if in.VideoFile == "" {
			return fmt.Errorf("%w: --video-file not set", errSkipped)
		}
		r.header("Chat recording", in.VideoFile)
		return r.printRecord(r.client.ProcessVideoFile(ctx, in.VideoFile, in.Sampling, in.Options(ocr.WithTemplate(prompt.Video))...))

	case TestVideoFile:
		if in.VideoFile == "" {
			return fmt.Errorf("%w: --video-file not set", errSkipped)
		}
		r.header("Video file", in.VideoFile)
		return r.printRecord(r.client.ProcessVideoFile(ctx, in.VideoFile, in.Sampling, in.Options()...))

	default:
		return fmt.Errorf("unknown test type %q", mode)
	}
}

func (r *Runner) header(title, input string) {
	fmt.Fprintf(r.out, "=== %s ===\n", title)
	fmt.Fprintf(r.out, "Input: %s\n", input)
}

func (r *Runner) printText(text string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Result: %s\n\n", text)
	return nil
}

func (r *Runner) printRecord(text string, err error) error {
	if err != nil {
		return err
	}
	PrintRecord(r.out, ocr.ParseResult(text))
	fmt.Fprintln(r.out)
	return nil
}
