package log

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tamojit-123/tivi/internal/config"
)

func TestOpen_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, closer, err := Open(config.LoggingConfig{File: path, Level: "INFO"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	logger.Info("started", "showID", "1399")
	logger.Debug("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (debug filtered), got %d: %q", len(lines), string(data))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "started" || entry["showID"] != "1399" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestOpen_AppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	for i := 0; i < 2; i++ {
		logger, closer, err := Open(config.LoggingConfig{File: path})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		logger.Info("session")
		closer.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if got := strings.Count(string(data), "session"); got != 2 {
		t.Errorf("expected both sessions in the file, got %d", got)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := Level(tt.in); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
