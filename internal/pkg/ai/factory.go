package ai

import (
	"fmt"

	"github.com/aicommit/aicommit/internal/pkg/config"
	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

// ProviderName constants for supported backends.
const (
	ProviderNameOllama = "ollama"
	ProviderNameOpenAI = "openai"
)

// NewProvider creates the network-backed provider named by the configuration.
func NewProvider(cfg *config.ProviderConfig) (Provider, error) {
	if cfg == nil {
		return nil, apperrors.NewInvalidConfigError("provider configuration is required")
	}

	aiConfig := ProviderConfig{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Endpoint:    cfg.Endpoint,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}

	switch cfg.Name {
	case ProviderNameOllama, "":
		return NewOllamaProvider(aiConfig)

	case ProviderNameOpenAI:
		return NewOpenAIProvider(aiConfig)

	default:
		return nil, apperrors.NewInvalidConfigError(fmt.Sprintf("unknown provider: %s", cfg.Name))
	}
}
