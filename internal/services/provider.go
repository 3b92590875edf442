package services

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultMockResponse is what the factory-built mock provider answers.
const DefaultMockResponse = "Mock response"

// NewProvider builds the provider named in configuration. Recognized names
// are "anthropic" and "mock"; adding a backend means adding a case here.
func NewProvider(name, model string, logger *slog.Logger) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "anthropic":
		svc, err := NewAnthropicServiceFromEnv(model, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "mock":
		return NewMockProvider(DefaultMockResponse), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: anthropic, mock)", ErrUnknownProvider, name)
	}
}
