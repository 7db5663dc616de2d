// Package main provides a single-purpose CLI that extracts the conversation
// from one chat screen recording.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/chatshot/cli"
	"github.com/richinex/chatshot/config"
	"github.com/richinex/chatshot/ocr"
	"github.com/richinex/chatshot/video"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output        string
		frameInterval int
		maxFrames     int
		apiKey        string
		quiet         bool
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:           "chatshot-video <video>",
		Short:         "Extract the conversation from a chat screen recording",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := config.Overrides{APIKey: apiKey, Timeout: timeout}
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

			logger := cli.NewLogger(os.Stderr, cli.LogLevel(false, quiet))
			provider, err := settings.NewProvider()
			if err != nil {
				return err
			}
			client, err := ocr.NewClient(provider,
				ocr.WithLogger(logger),
				ocr.WithSampler(video.NewSampler(nil, video.WithLogger(logger))),
			)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), settings.Timeout)
			defer cancel()

			sampling := video.Options{
				FrameInterval: settings.Video.FrameInterval,
				MaxFrames:     settings.Video.MaxFrames,
			}
			return cli.NewRunner(client, os.Stdout, logger).QuickProcess(ctx, args[0], sampling, output, quiet)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Save the result as JSON to this path")
	cmd.Flags().IntVarP(&frameInterval, "frame-interval", "i", video.DefaultFrameInterval, "Frame stride when the frame count is unknown")
	cmd.Flags().IntVarP(&maxFrames, "max-frames", "m", video.DefaultMaxFrames, "Maximum number of frames to sample")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "API key (default: CHATSHOT_API_KEY or DASHSCOPE_API_KEY)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the result")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall timeout (default 2m)")

	return cmd
}
