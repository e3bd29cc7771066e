// Package logger builds the slog.Logger shared by the service, the CLI, and
// the stores. Level and format arrive as plain strings from the YAML config,
// so parsing is forgiving: unknown values fall back to info/text rather than
// failing startup.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// levels maps config strings to slog levels. Lookups are normalized, so
// "WARN" and " warn " both resolve.
var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New creates a *slog.Logger writing to stderr with the given level
// ("debug", "info", "warn", "error") and format ("text" or "json").
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a *slog.Logger writing to w. Tests use it to capture
// output.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	switch normalize(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

// Nop returns a logger that discards everything. Constructors use it as the
// default so a nil-logger check never leaks into call sites.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts a level string to slog.Level. Unrecognized values,
// including the empty string, mean LevelInfo.
func ParseLevel(level string) slog.Level {
	if l, ok := levels[normalize(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
