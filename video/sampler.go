// Package video samples a bounded, evenly spaced set of frames from a video
// file into a per-call temporary directory.
package video

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/chatshot/model"
)

const (
	DefaultFrameInterval = 2
	DefaultMaxFrames     = 20
)

// Options bounds a sampling run. Zero values select the defaults.
type Options struct {
	// FrameInterval is the stride used when the frame count is unknown.
	FrameInterval int
	// MaxFrames caps the number of frames emitted.
	MaxFrames int
	// SkipDuplicates drops frames byte-identical to the previous kept frame,
	// which collapses static stretches of a screen recording.
	SkipDuplicates bool
}

func (o Options) withDefaults() Options {
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = DefaultMaxFrames
	}
	return o
}

// Info is stream metadata reported by the decoder. It is logged only.
type Info struct {
	TotalFrames int
	FPS         float64
	Duration    time.Duration
}

// Decoder probes and extracts frames from a video file.
type Decoder interface {
	Probe(ctx context.Context, path string) (Info, error)
	// Extract writes every stride-th frame, at most count of them, as JPEG
	// files into dir and returns their paths in frame order.
	Extract(ctx context.Context, path, dir string, stride, count int) ([]string, error)
}

// Plan returns the stride and the number of frames to emit. A stream with
// total <= max frames is sampled in full; a longer one is sampled every
// total/max frames. An unknown total falls back to interval.
func Plan(total, max, interval int) (stride, count int) {
	if max <= 0 {
		max = DefaultMaxFrames
	}
	if total <= 0 {
		if interval <= 0 {
			interval = DefaultFrameInterval
		}
		return interval, max
	}
	if total <= max {
		return 1, total
	}
	return total / max, max
}

// FrameSet is the ordered list of sampled frames and the directory that owns them.
type FrameSet struct {
	Dir    string
	Frames []string
	Info   Info
	logger *slog.Logger
}

// Len returns the number of frames.
func (f *FrameSet) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Frames)
}

// Cleanup removes the frames and their directory. Failures are logged.
func (f *FrameSet) Cleanup() {
	if f == nil || f.Dir == "" {
		return
	}
	if err := os.RemoveAll(f.Dir); err != nil {
		f.logger.Warn("failed to remove frame directory", "dir", f.Dir, "error", err)
		return
	}
	f.logger.Debug("removed frame directory", "dir", f.Dir, "frames", len(f.Frames))
}

// Sampler turns a video file into a FrameSet.
type Sampler struct {
	decoder Decoder
	tempDir string
	logger  *slog.Logger
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithTempDir sets the parent directory for frame directories.
func WithTempDir(dir string) SamplerOption {
	return func(s *Sampler) { s.tempDir = dir }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SamplerOption {
	return func(s *Sampler) { s.logger = logger }
}

// NewSampler creates a sampler. A nil decoder selects ffmpeg.
func NewSampler(decoder Decoder, opts ...SamplerOption) *Sampler {
	s := &Sampler{decoder: decoder}
	for _, opt := range opts {
		opt(s)
	}
	if s.decoder == nil {
		s.decoder = NewFFmpeg()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "video")
	return s
}

// Sample extracts up to opts.MaxFrames evenly spaced frames from path.
// The caller owns the result and must call Cleanup.
func (s *Sampler) Sample(ctx context.Context, path string, opts Options) (*FrameSet, error) {
	opts = opts.withDefaults()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.NewOpError("sample_video", path, model.ErrMediaNotFound, err)
		}
		return nil, model.NewOpError("sample_video", path, model.ErrVideoOpen, err)
	}

	info, err := s.decoder.Probe(ctx, path)
	if err != nil {
		return nil, model.NewOpError("sample_video", path, model.ErrVideoOpen, err)
	}

	stride, count := Plan(info.TotalFrames, opts.MaxFrames, opts.FrameInterval)
	s.logger.Info("sampling video",
		"path", path,
		"total_frames", info.TotalFrames,
		"fps", info.FPS,
		"duration", info.Duration,
		"stride", stride,
		"max_frames", count,
	)

	dir, err := os.MkdirTemp(s.tempDir, fmt.Sprintf("chatshot-frames-%s-*", uuid.NewString()))
	if err != nil {
		return nil, fmt.Errorf("create frame directory: %w", err)
	}
	set := &FrameSet{Dir: dir, Info: info, logger: s.logger}

	frames, err := s.decoder.Extract(ctx, path, dir, stride, count)
	if err != nil {
		set.Cleanup()
		return nil, model.NewOpError("sample_video", path, model.ErrVideoOpen, err)
	}
	if len(frames) > count {
		frames = frames[:count]
	}
	if opts.SkipDuplicates {
		kept := dedupeFrames(frames, s.logger)
		s.logger.Debug("dropped duplicate frames", "path", path, "dropped", len(frames)-len(kept))
		frames = kept
	}
	set.Frames = frames

	s.logger.Info("sampled frames", "path", path, "frames", len(frames), "dir", dir)
	return set, nil
}
