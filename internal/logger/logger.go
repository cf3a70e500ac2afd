package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/polkiloo/ikanmart/internal/config"
)

// New creates a preconfigured slog.Logger. When a log file is configured the
// output is also written to a size-rotated file.
func New(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg != nil && cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
		})
	}
	level := slog.LevelInfo
	if cfg != nil {
		level = ParseLevel(cfg.LogLevel)
	}
	return newWithWriter(out, level)
}

func newWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", "ikanmart"))
}

// ParseLevel maps textual levels to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
