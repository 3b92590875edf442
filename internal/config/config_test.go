package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "GAME_CONFIG_PATH",
		"LLM_PROVIDER", "LLM_MODEL", "REDIS_URL", "USAGE_DB_PATH", "CACHE_TTL", "CACHE_MAX_ENTRIES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected development, got %s", cfg.Environment)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", cfg.LogLevel)
	}
	if cfg.GameConfigPath != "data/game_config.yaml" {
		t.Errorf("Unexpected game config path %s", cfg.GameConfigPath)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected 5m TTL, got %v", cfg.CacheTTL)
	}
	if cfg.CacheMaxEntries != 100 {
		t.Errorf("Expected 100 max entries, got %d", cfg.CacheMaxEntries)
	}
	if cfg.RedisURL != "" || cfg.UsageDBPath != "" {
		t.Error("Optional backends should be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CACHE_MAX_ENTRIES", "7")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.LogLevel != slog.LevelDebug || cfg.LLMProvider != "mock" {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.CacheTTL != 30*time.Second || cfg.CacheMaxEntries != 7 {
		t.Errorf("Cache overrides not applied: ttl=%v max=%d", cfg.CacheTTL, cfg.CacheMaxEntries)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Unexpected redis url %s", cfg.RedisURL)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad ttl", key: "CACHE_TTL", value: "soon"},
		{name: "zero ttl", key: "CACHE_TTL", value: "0s"},
		{name: "bad max entries", key: "CACHE_MAX_ENTRIES", value: "lots"},
		{name: "negative max entries", key: "CACHE_MAX_ENTRIES", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CACHE_TTL", "")
			t.Setenv("CACHE_MAX_ENTRIES", "")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
