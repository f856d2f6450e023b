// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"strings"

	"github.com/aicommit/aicommit/internal/pkg/ai"
	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/aicommit/aicommit/internal/pkg/styles"
)

// GenerationRequest is the input of one generation.
type GenerationRequest struct {
	Diff  string
	Style string
}

// GenerationService turns a staged diff into a commit message.
// It performs no I/O of its own beyond the provider call.
type GenerationService struct {
	styles   styles.Repository
	provider ai.Provider
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(repo styles.Repository, provider ai.Provider) *GenerationService {
	return &GenerationService{styles: repo, provider: provider}
}

// Generate resolves the style to a system prompt, sends it with the diff
// unchanged as the user prompt, and returns the trimmed completion.
func (s *GenerationService) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	systemPrompt, err := s.styles.Load(req.Style)
	if err != nil {
		return "", err
	}

	apperrors.Debug("generating with style %q (%d byte diff)", req.Style, len(req.Diff))

	completion, err := s.provider.Complete(ctx, systemPrompt, req.Diff)
	if err != nil {
		return "", err
	}

	message := strings.TrimSpace(completion)
	if message == "" {
		return "", apperrors.NewEmptyCompletionError()
	}
	return message, nil
}
