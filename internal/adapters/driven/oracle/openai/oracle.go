// Package openai provides a mapping-suggestion oracle backed by the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
)

// Ensure Oracle implements the interface.
var _ driven.MappingOracle = (*Oracle)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the OpenAI mapping oracle.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Oracle suggests field mappings using OpenAI chat completions. Callers
// treat any failure here as a signal to fall back to the deterministic
// matcher; this adapter never needs to degrade gracefully itself.
type Oracle struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new OpenAI mapping oracle.
func New(cfg Config) (*Oracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Oracle{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// suggestPrompt asks for a strict JSON response so the answer can be
// unmarshalled directly into mapping structs.
const suggestPrompt = `You map spreadsheet columns to content type fields.

Spreadsheet columns:
%s

Target fields (id, display name, kind):
%s

Return ONLY a JSON array, no prose. Each element:
{"sourceField": "<column>", "targetField": "<field id>", "confidence": <0..1>,
 "transformRequired": <bool>, "transformDescription": "<why, if required>"}

Map each column to at most one field. Omit columns with no plausible field.`

// SuggestMappings proposes mappings for the given headers and fields.
func (o *Oracle) SuggestMappings(
	ctx context.Context, headers []string, fields []domain.FieldDescriptor,
) ([]domain.FieldMapping, error) {
	var fieldLines strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&fieldLines, "- %s (%s, %s)\n", f.ID, f.Name, f.Kind)
	}

	prompt := fmt.Sprintf(suggestPrompt, "- "+strings.Join(headers, "\n- "), fieldLines.String())

	content, err := o.chatCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var mappings []domain.FieldMapping
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &mappings); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return mappings, nil
}

// ModelName returns the name of the model being used.
func (o *Oracle) ModelName() string {
	return o.model
}

// Close releases resources.
func (o *Oracle) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

// chatCompletion sends one user message and returns the model's reply.
func (o *Oracle) chatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: o.model,
		Messages: []chatCompletionMsg{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		o.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// extractJSONArray strips markdown code fences and surrounding prose that
// models sometimes wrap around a JSON answer.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
