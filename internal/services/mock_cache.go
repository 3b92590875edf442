package services

import (
	"context"
	"sync"
)

// MockCache is a map-backed Cache that records calls for testing
type MockCache struct {
	PingFunc func(ctx context.Context) error

	// Track calls for testing
	GetCalls   []string
	SetCalls   []SetCall
	ClearCalls int

	data map[string]string
	mu   sync.Mutex
}

var _ Cache = (*MockCache)(nil)

type SetCall struct {
	Key   string
	Value string
}

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		GetCalls: make([]string, 0),
		SetCalls: make([]SetCall, 0),
		data:     make(map[string]string),
	}
}

// Get mocks cache get
func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	value, ok := m.data[key]
	return value, ok
}

// Set mocks cache set
func (m *MockCache) Set(_ context.Context, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value})
	m.data[key] = value
}

func (m *MockCache) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClearCalls++
	m.data = make(map[string]string)
}

// Ping mocks cache ping
func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}

	// Default behavior - success
	return nil
}

// Calls returns the number of Get and Set calls seen so far
func (m *MockCache) Calls() (gets, sets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetCalls), len(m.SetCalls)
}
