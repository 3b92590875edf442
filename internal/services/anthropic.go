package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jwebster45206/career-rpg/pkg/chat"
)

const (
	anthropicVersion = "2023-06-01"

	DefaultAnthropicMaxTokens = 1024

	EnvAnthropicAPIKey  = "ANTHROPIC_API_KEY"
	EnvAnthropicBaseURL = "ANTHROPIC_BASE_URL"
)

// AnthropicService implements Provider for Anthropic-compatible message APIs
type AnthropicService struct {
	apiKey     string
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Provider = (*AnthropicService)(nil)

type AnthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type AnthropicMessage struct {
	Role    string                  `json:"role"`
	Content []AnthropicContentBlock `json:"content"`
}

type AnthropicChatRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []AnthropicMessage `json:"messages"`
}

type AnthropicChatResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []AnthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewAnthropicService creates a client for baseURL (for example
// https://api.anthropic.com). Both apiKey and baseURL are required.
func NewAnthropicService(apiKey, baseURL, modelName string, logger *slog.Logger) (*AnthropicService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key is empty", ErrMissingCredentials)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base url is empty", ErrMissingCredentials)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AnthropicService{
		apiKey:    apiKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}, nil
}

// NewAnthropicServiceFromEnv reads ANTHROPIC_API_KEY and ANTHROPIC_BASE_URL.
func NewAnthropicServiceFromEnv(modelName string, logger *slog.Logger) (*AnthropicService, error) {
	apiKey := os.Getenv(EnvAnthropicAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not found in environment", ErrMissingCredentials, EnvAnthropicAPIKey)
	}
	baseURL := os.Getenv(EnvAnthropicBaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: %s not found in environment", ErrMissingCredentials, EnvAnthropicBaseURL)
	}
	return NewAnthropicService(apiKey, baseURL, modelName, logger)
}

func (a *AnthropicService) Name() string {
	return "anthropic"
}

// splitChatMessages folds any system messages into the system prompt and
// converts the rest into Anthropic text blocks
func splitChatMessages(system string, messages []chat.ChatMessage) (string, []AnthropicMessage) {
	systemParts := make([]string, 0, 1)
	if system != "" {
		systemParts = append(systemParts, system)
	}

	converted := make([]AnthropicMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == chat.ChatRoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		converted = append(converted, AnthropicMessage{
			Role:    msg.Role,
			Content: []AnthropicContentBlock{{Type: "text", Text: msg.Content}},
		})
	}

	return strings.Join(systemParts, "\n\n"), converted
}

// Complete makes a single message request to the Anthropic API
func (a *AnthropicService) Complete(ctx context.Context, system string, messages []chat.ChatMessage) (string, error) {
	systemPrompt, conversation := splitChatMessages(system, messages)

	anthropicReq := AnthropicChatRequest{
		Model:     a.modelName,
		MaxTokens: DefaultAnthropicMaxTokens,
		System:    systemPrompt,
		Messages:  conversation,
	}

	reqBody, err := json.Marshal(anthropicReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var anthropicResp AnthropicChatResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrInvalidResponse, err, string(body))
	}

	for _, block := range anthropicResp.Content {
		if block.Type == "text" {
			a.logger.Debug("Anthropic completion received",
				"model", a.modelName,
				"input_tokens", anthropicResp.Usage.InputTokens,
				"output_tokens", anthropicResp.Usage.OutputTokens,
				"duration", time.Since(start))
			return block.Text, nil
		}
	}

	return "", ErrNoTextContent
}
