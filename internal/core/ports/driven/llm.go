package driven

import (
	"context"
)

// LLMService provides single-turn text generation
type LLMService interface {
	// Generate sends one self-contained prompt as the sole user message and
	// returns the completion text. No streaming, no multi-turn state.
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the generation service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the generation service
	Close() error
}
