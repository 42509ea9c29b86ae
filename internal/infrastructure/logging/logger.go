package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jmadland/hearthcloud-core/internal/infrastructure/config"
)

// Logger is the service-wide structured logger. It embeds *slog.Logger,
// so the full slog API is available; every entry carries the service
// name and version as default fields.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of the service
// configuration: JSON or text format, level filtering, stdout or
// stderr.
func New(cfg config.LoggingConfig, version string) *Logger {
	h := newHandler(destination(cfg.Output), cfg)
	return &Logger{
		Logger: slog.New(h).With("service", "hearthcloud", "version", version),
	}
}

// With returns a child logger carrying extra default attributes.
//
//	engineLog := log.With("component", "engine")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default returns a JSON info-level logger for early startup, before
// configuration has been loaded.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}

// newHandler builds the slog handler; split from New so tests can log
// into a buffer.
func newHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func destination(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// parseLevel maps a config string to a slog level. Unrecognised values
// fall back to info rather than failing startup.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
