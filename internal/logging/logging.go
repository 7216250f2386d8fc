// Package logging builds the slog loggers used by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w in the given format.
func New(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// LevelForVerbosity maps a terminal_output setting to a level: 0 shows
// warnings only, 1 and 2 add progress messages, 3 and above everything.
func LevelForVerbosity(n int) slog.Level {
	switch {
	case n <= 0:
		return slog.LevelWarn
	case n < 3:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// ParseLevel converts a level name to a slog.Level. Unknown names yield
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
