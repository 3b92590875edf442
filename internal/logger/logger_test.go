package logger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwebster45206/career-rpg/internal/config"
)

func TestSetup_WritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "career-rpg.log")
	cfg := &config.Config{
		Environment: "production",
		LogLevel:    slog.LevelInfo,
		LogFile:     logFile,
	}

	log := Setup(cfg)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	WithError(WithRequestID(log, "req-123"), errors.New("boom")).Info("dialog served")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"msg":"dialog served"`, `"request_id":"req-123"`, `"error":"boom"`} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected log line to contain %s, got %s", want, line)
		}
	}
}

func TestSetup_RespectsLevel(t *testing.T) {
	cfg := &config.Config{Environment: "development", LogLevel: slog.LevelWarn}
	log := Setup(cfg)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info should be disabled at warn level")
	}
	if !log.Enabled(context.Background(), slog.LevelError) {
		t.Error("Error should be enabled at warn level")
	}
}
