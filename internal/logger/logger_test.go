// ABOUTME: Tests for logger configuration
// ABOUTME: Verifies level parsing, format selection, and debug file output

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := parseLevel(tc.input); got != tc.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	closer, err := Init(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer closer()

	slog.Info("hello", "key", "value")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON record, got %q", buf.String())
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	closer, _ := Init(Options{Level: "warn", Output: &buf})
	defer closer()

	slog.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
}

func TestInitFileDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "flyair")
	closer, err := Init(Options{Level: "debug", FileDir: dir})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	slog.Debug("to file")
	if err := closer(); err != nil {
		t.Fatalf("closer() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("expected debug.log to exist: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("expected message in debug.log, got %q", string(data))
	}
}
