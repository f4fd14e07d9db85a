package mocks

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// MockLLMService is a mock implementation of LLMService for testing
type MockLLMService struct {
	model      string
	answer     string
	failAlways bool
	CallCount  int
	LastPrompt string
}

// NewMockLLMService creates a new MockLLMService
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{
		model:  "mock-llm",
		answer: "mock answer",
	}
}

func (m *MockLLMService) Generate(ctx context.Context, prompt string) (string, error) {
	m.CallCount++
	m.LastPrompt = prompt
	if m.failAlways {
		return "", fmt.Errorf("%w: mock failure", domain.ErrGeneration)
	}
	return m.answer, nil
}

func (m *MockLLMService) Model() string {
	return m.model
}

func (m *MockLLMService) HealthCheck(ctx context.Context) error {
	if m.failAlways {
		return domain.ErrGeneration
	}
	return nil
}

func (m *MockLLMService) Close() error {
	return nil
}

// Helper methods for testing

func (m *MockLLMService) SetAnswer(answer string) {
	m.answer = answer
}

func (m *MockLLMService) SetFailAlways(fail bool) {
	m.failAlways = fail
}
