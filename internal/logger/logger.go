// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: CLI commands log to stderr; the TUI logs to a debug file so the terminal stays clean.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options controls where and how log records are written.
type Options struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text, json (default: text)

	// FileDir, when set, sends output to <FileDir>/debug.log instead of Output.
	FileDir string
	Output  io.Writer
}

// Init configures the default slog logger. The returned closer releases the
// debug log file, if one was opened, and is always safe to call.
func Init(opts Options) (func() error, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }

	if opts.FileDir != "" {
		if err := os.MkdirAll(opts.FileDir, 0700); err != nil {
			return closer, err
		}
		f, err := os.OpenFile(filepath.Join(opts.FileDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return closer, err
		}
		out = f
		closer = f.Close
	}

	slog.SetDefault(slog.New(newHandler(out, opts)))
	return closer, nil
}

// Discard silences logging, used by commands that print JSON to stdout.
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	}
	if strings.ToLower(opts.Format) == "json" {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// parseLevel converts a string log level to slog.Level.
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
