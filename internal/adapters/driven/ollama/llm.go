package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driven"
)

// Ensure LLM implements LLMService
var _ driven.LLMService = (*LLM)(nil)

// LLM implements LLMService using Ollama's chat API
type LLM struct {
	client *Client
	model  string
}

// NewLLM creates a new Ollama generation service
func NewLLM(client *Client, model string) (*LLM, error) {
	if model == "" {
		return nil, fmt.Errorf("llm model name is required")
	}
	return &LLM{
		client: client,
		model:  model,
	}, nil
}

// chatMessage is a single message in an Ollama chat request
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for the Ollama chat API
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatResponse is the response from the Ollama chat API
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

// Generate sends one self-contained prompt as the sole user message and
// returns the completion text
func (l *LLM) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: l.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}

	respBody, err := l.client.post(ctx, "/api/chat", reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %v", domain.ErrGeneration, err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", domain.ErrGeneration, resp.Error)
	}
	if resp.Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrGeneration)
	}

	return resp.Message.Content, nil
}

// Model returns the model name being used
func (l *LLM) Model() string {
	return l.model
}

// HealthCheck verifies the generation service is available
func (l *LLM) HealthCheck(ctx context.Context) error {
	var resp struct {
		Models []json.RawMessage `json:"models"`
	}
	return l.client.get(ctx, "/api/tags", &resp)
}

// Close releases resources held by the generation service
func (l *LLM) Close() error {
	return l.client.Close()
}
