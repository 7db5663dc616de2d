package video

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FFmpeg decodes video with the ffprobe and ffmpeg executables.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpeg returns a decoder that resolves both binaries from PATH.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"}
}

type probeOutput struct {
	Streams []struct {
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
		RFrameRate    string `json:"r_frame_rate"`
		Duration      string `json:"duration"`
	} `json:"streams"`
}

// Probe reads the frame count, frame rate and duration of the first video stream.
func (f *FFmpeg) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, f.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_frames,nb_read_packets,r_frame_rate,duration",
		"-of", "json",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Info{}, fmt.Errorf("ffprobe failed: %v: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Info{}, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(output)
}

func parseProbe(output []byte) (Info, error) {
	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return Info{}, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return Info{}, fmt.Errorf("no video stream")
	}
	stream := probe.Streams[0]

	var info Info
	if n, err := strconv.Atoi(stream.NbFrames); err == nil {
		info.TotalFrames = n
	} else if n, err := strconv.Atoi(stream.NbReadPackets); err == nil {
		info.TotalFrames = n
	}
	info.FPS = parseRate(stream.RFrameRate)
	if secs, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
		info.Duration = time.Duration(math.Round(secs * float64(time.Second)))
	} else if info.FPS > 0 && info.TotalFrames > 0 {
		info.Duration = time.Duration(float64(info.TotalFrames) / info.FPS * float64(time.Second))
	}
	return info, nil
}

// parseRate parses "30000/1001" style rates.
func parseRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// Extract writes every stride-th frame as frame_NNNN.jpg. Builds older than
// ffmpeg 5.1 reject -fps_mode, so a rejection is retried with -vsync.
func (f *FFmpeg) Extract(ctx context.Context, path, dir string, stride, count int) ([]string, error) {
	if stride < 1 {
		stride = 1
	}
	output, err := f.runExtract(ctx, path, dir, stride, count, "-fps_mode")
	if err != nil && strings.Contains(string(output), "fps_mode") {
		output, err = f.runExtract(ctx, path, dir, stride, count, "-vsync")
	}
	if err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v\nOutput: %s", err, string(output))
	}
	return listFrames(dir)
}

func (f *FFmpeg) runExtract(ctx context.Context, path, dir string, stride, count int, syncFlag string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vf", fmt.Sprintf(`select=not(mod(n\,%d))`, stride),
		syncFlag, "vfr",
		"-frames:v", strconv.Itoa(count),
		"-q:v", "2",
		filepath.Join(dir, "frame_%04d.jpg"),
	)
	return cmd.CombinedOutput()
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	var frames []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".jpg") {
			frames = append(frames, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(frames)
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames decoded")
	}
	return frames, nil
}

var _ Decoder = (*FFmpeg)(nil)
