package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwebster45206/career-rpg/pkg/chat"
)

var (
	ErrUnknownProvider    = errors.New("unknown LLM provider")
	ErrMissingCredentials = errors.New("missing LLM provider credentials")
	ErrInvalidResponse    = errors.New("invalid LLM response")
	ErrNoTextContent      = errors.New("no text content in LLM response")
)

// Provider is a language-model backend. Complete blocks until the backend
// answers and returns either the full text or an error, never a partial
// result.
type Provider interface {
	// Name identifies the provider in logs
	Name() string

	// Complete sends a system prompt and conversation and returns the reply text
	Complete(ctx context.Context, system string, messages []chat.ChatMessage) (string, error)
}

// APIError is returned when the provider answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}
