// Package main provides the chatshot CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/chatshot/cli"
	"github.com/richinex/chatshot/config"
	"github.com/richinex/chatshot/ocr"
	"github.com/richinex/chatshot/prompt"
	"github.com/richinex/chatshot/video"
)

var (
	apiKey        string
	provider      string
	modelName     string
	configFile    string
	localImages   []string
	videoFile     string
	frames        []string
	frameInterval int
	maxFrames     int
	skipDupes     bool
	testType      string
	quickProcess  string
	saveJSON      string
	promptType    string
	promptText    string
	withActions   bool
	timeout       time.Duration
	verbose       bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "chatshot",
		Short: "Extract conversations from chat screenshots and screen recordings",
		Long: `Send mobile chat screenshots or screen recordings to a vision model and
extract the user and assistant messages as JSON.

Run a single mode with --test-type, or process one recording with --quick-process.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&apiKey, "api-key", "", "API key (default: CHATSHOT_API_KEY or the provider's key variable)")
	flags.StringVarP(&provider, "provider", "p", "", "Vision provider (dashscope, openai, anthropic, gemini)")
	flags.StringVar(&modelName, "model", "", "Model override")
	flags.StringVar(&configFile, "config", "", "Config file (default: ./chatshot.yaml or $HOME/.chatshot/chatshot.yaml)")
	flags.StringArrayVar(&localImages, "local-image", nil, "Local image path (repeatable; chat_multiple uses all)")
	flags.StringVar(&videoFile, "video-file", "", "Local video file for video modes")
	flags.StringArrayVar(&frames, "frame", nil, "Frame image for the video mode (repeatable)")
	flags.IntVar(&frameInterval, "frame-interval", video.DefaultFrameInterval, "Frame stride when the frame count is unknown")
	flags.IntVar(&maxFrames, "max-frames", video.DefaultMaxFrames, "Maximum number of frames to sample")
	flags.BoolVar(&skipDupes, "skip-duplicate-frames", false, "Drop sampled frames identical to the previous one")
	flags.StringVar(&testType, "test-type", string(cli.TestAll), "Mode to run: "+strings.Join(cli.TestTypeNames(), ", "))
	flags.StringVar(&quickProcess, "quick-process", "", "Process this video file and print the conversation")
	flags.StringVar(&saveJSON, "save-json", "", "Save the --quick-process result as JSON")
	flags.StringVar(&promptType, "prompt-type", "", "Chat template for every mode (single, multiple, video, custom)")
	flags.StringVar(&promptText, "prompt", "", "Custom prompt text sent in place of the template")
	flags.BoolVar(&withActions, "with-actions", false, "Also ask for the user_actions narration")
	flags.DurationVar(&timeout, "timeout", 0, "Overall timeout (default from config, 2m)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	mode, err := cli.ParseTestType(testType)
	if err != nil {
		return err
	}

	overrides := config.Overrides{
		ConfigFile: configFile,
		Provider:   provider,
		Model:      modelName,
		APIKey:     apiKey,
		Timeout:    timeout,
	}
	if cmd.Flags().Changed("frame-interval") {
		overrides.FrameInterval = frameInterval
	}
	if cmd.Flags().Changed("max-frames") {
		overrides.MaxFrames = maxFrames
	}

	settings, err := config.Load(overrides)
	if err != nil {
		return err
	}

	logger := cli.NewLogger(os.Stderr, cli.LogLevel(verbose, false))

	llmProvider, err := settings.NewProvider()
	if err != nil {
		return err
	}
	client, err := ocr.NewClient(llmProvider,
		ocr.WithLogger(logger),
		ocr.WithSampler(video.NewSampler(nil, video.WithLogger(logger))),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.Timeout)
	defer cancel()

	sampling := video.Options{
		FrameInterval:  settings.Video.FrameInterval,
		MaxFrames:      settings.Video.MaxFrames,
		SkipDuplicates: skipDupes,
	}
	inputs := cli.Inputs{
		LocalImages: localImages,
		VideoFile:   videoFile,
		Frames:      frames,
		Sampling:    sampling,
		Prompt:      promptText,
		Actions:     withActions,
	}
	if promptType != "" {
		inputs.Template = prompt.ParseTemplate(promptType)
	}
	runner := cli.NewRunner(client, os.Stdout, logger)

	if quickProcess != "" {
		return runner.QuickProcess(ctx, quickProcess, sampling, saveJSON, false, inputs.Options()...)
	}

	return runner.RunTests(ctx, mode, inputs)
}
