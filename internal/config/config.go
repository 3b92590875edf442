package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Environment    string
	LogLevel       slog.Level
	LogFile        string
	GameConfigPath string

	// LLMProvider and LLMModel override the game config's llm section when set.
	LLMProvider string
	LLMModel    string

	RedisURL    string
	UsageDBPath string

	CacheTTL        time.Duration
	CacheMaxEntries int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:        os.Getenv("LOG_FILE"),
		GameConfigPath: getEnv("GAME_CONFIG_PATH", "data/game_config.yaml"),
		LLMProvider:    os.Getenv("LLM_PROVIDER"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		UsageDBPath:    os.Getenv("USAGE_DB_PATH"),
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL: must be positive, got %s", ttl)
	}
	cfg.CacheTTL = ttl

	maxEntries, err := strconv.Atoi(getEnv("CACHE_MAX_ENTRIES", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_MAX_ENTRIES: %w", err)
	}
	if maxEntries <= 0 {
		return nil, fmt.Errorf("invalid CACHE_MAX_ENTRIES: must be positive, got %d", maxEntries)
	}
	cfg.CacheMaxEntries = maxEntries

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
