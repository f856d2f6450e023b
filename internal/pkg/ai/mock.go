package ai

import (
	"context"
	"fmt"
)

// MockProvider is the deterministic provider used for dry runs.
// It echoes both prompts back in a fixed template and never fails.
type MockProvider struct{}

// NewMockProvider creates a deterministic provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Complete returns the templated echo of the prompts.
func (MockProvider) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	return fmt.Sprintf("Mock Response\nSystem Prompt: %s\nUser Prompt: %s", systemPrompt, userPrompt), nil
}
