package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/career-rpg/pkg/chat"
)

func TestNewProvider(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("mock", func(t *testing.T) {
		provider, err := NewProvider("mock", "test", log)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		result, err := provider.Complete(context.Background(), "system", []chat.ChatMessage{chat.User("test")})
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if result != DefaultMockResponse {
			t.Errorf("Expected %q, got %q", DefaultMockResponse, result)
		}
	})

	t.Run("mock name is case insensitive", func(t *testing.T) {
		provider, err := NewProvider(" MOCK ", "test", log)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if provider.Name() != "mock" {
			t.Errorf("Expected mock provider, got %s", provider.Name())
		}
	})

	t.Run("anthropic with env", func(t *testing.T) {
		t.Setenv(EnvAnthropicAPIKey, "test-key")
		t.Setenv(EnvAnthropicBaseURL, "https://example.invalid")

		provider, err := NewProvider("anthropic", "claude-test", log)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if provider.Name() != "anthropic" {
			t.Errorf("Expected anthropic provider, got %s", provider.Name())
		}
	})

	t.Run("anthropic without credentials", func(t *testing.T) {
		t.Setenv(EnvAnthropicAPIKey, "")
		t.Setenv(EnvAnthropicBaseURL, "")

		_, err := NewProvider("anthropic", "claude-test", log)
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("Expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewProvider("openai", "gpt", log)
		if !errors.Is(err, ErrUnknownProvider) {
			t.Errorf("Expected ErrUnknownProvider, got %v", err)
		}
	})
}

func TestNewProvider_FailureReturnsNilInterface(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	t.Setenv(EnvAnthropicAPIKey, "")

	provider, err := NewProvider("anthropic", "m", log)
	if err == nil {
		t.Fatal("Expected error")
	}
	if provider != nil {
		t.Errorf("Expected nil provider, got %#v", provider)
	}
}
