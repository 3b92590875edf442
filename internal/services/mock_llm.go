package services

import (
	"context"
	"slices"
	"sync"

	"github.com/jwebster45206/career-rpg/pkg/chat"
)

// MockProvider is a Provider that answers with a fixed response and records
// every request. It is safe for concurrent use.
type MockProvider struct {
	name     string
	response string
	err      error

	// Track calls for testing
	requests []CompleteCall

	mu sync.Mutex // protects all fields above
}

var _ Provider = (*MockProvider)(nil)

// CompleteCall is one recorded Complete invocation.
type CompleteCall struct {
	System   string
	Messages []chat.ChatMessage
}

// NewMockProvider creates a mock that returns response for every completion
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{
		name:     "mock",
		response: response,
		requests: make([]CompleteCall, 0),
	}
}

// NewNamedMockProvider creates a mock reporting a custom name
func NewNamedMockProvider(name, response string) *MockProvider {
	m := NewMockProvider(response)
	m.name = name
	return m
}

func (m *MockProvider) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Complete records the request and returns the configured response or error
func (m *MockProvider) Complete(ctx context.Context, system string, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, CompleteCall{
		System:   system,
		Messages: slices.Clone(messages),
	})

	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// SetResponse changes the response returned by later calls
func (m *MockProvider) SetResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
}

// SetCompleteError makes later calls fail with err; nil restores success
func (m *MockProvider) SetCompleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetRequests returns a copy of the recorded requests in call order
func (m *MockProvider) GetRequests() []CompleteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := make([]CompleteCall, len(m.requests))
	copy(requests, m.requests)
	return requests
}

// ClearRequests clears request history
func (m *MockProvider) ClearRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make([]CompleteCall, 0)
}
