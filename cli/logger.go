package cli

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// NewLogger returns a colorized stderr-style logger at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)
}

// LogLevel maps the verbosity flags to a level. Quiet wins over verbose.
func LogLevel(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
