package video

import (
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"
)

// dedupeFrames removes frames whose content hashes equal the previous kept
// frame. Dropped files are deleted; unreadable frames are kept.
func dedupeFrames(frames []string, logger *slog.Logger) []string {
	kept := make([]string, 0, len(frames))
	var prev uint64
	for i, frame := range frames {
		data, err := os.ReadFile(frame)
		if err != nil {
			logger.Warn("failed to hash frame", "frame", frame, "error", err)
			kept = append(kept, frame)
			continue
		}
		sum := xxhash.Sum64(data)
		if i > 0 && sum == prev {
			if err := os.Remove(frame); err != nil {
				logger.Warn("failed to remove duplicate frame", "frame", frame, "error", err)
			}
			continue
		}
		prev = sum
		kept = append(kept, frame)
	}
	return kept
}
