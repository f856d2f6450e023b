package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

const (
	// DefaultOllamaModel is the model requested when none is configured.
	DefaultOllamaModel = "llama3.2"

	// DefaultOllamaEndpoint is the Ollama server used when none is configured.
	DefaultOllamaEndpoint = "http://localhost:11434"

	// OllamaAPIPath is the API path for chat completions.
	OllamaAPIPath = "/api/chat"
)

// OllamaProvider implements Provider against an Ollama server.
type OllamaProvider struct {
	httpClient *http.Client
	config     ProviderConfig
}

// OllamaChatRequest represents a request to the Ollama chat API.
type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *OllamaOptions  `json:"options,omitempty"`
}

// OllamaMessage represents a message in the Ollama chat API.
type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaOptions represents optional parameters for Ollama requests.
type OllamaOptions struct {
	Temperature float32 `json:"temperature"`
}

// OllamaChatResponse represents a response from the Ollama chat API.
type OllamaChatResponse struct {
	Model     string        `json:"model"`
	CreatedAt string        `json:"created_at"`
	Message   OllamaMessage `json:"message"`
	Done      bool          `json:"done"`
	Error     string        `json:"error,omitempty"`
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(config ProviderConfig) (*OllamaProvider, error) {
	if err := validateOllamaConfig(config); err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultOllamaEndpoint
	}
	config.Endpoint = strings.TrimRight(config.Endpoint, "/")
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &OllamaProvider{
		httpClient: newHTTPClient(config.Timeout),
		config:     config,
	}, nil
}

// validateOllamaConfig validates the Ollama provider configuration.
// Ollama needs no API key; only the endpoint scheme is checked.
func validateOllamaConfig(config ProviderConfig) error {
	if config.Endpoint == "" {
		return nil
	}
	if strings.HasPrefix(config.Endpoint, "http://") || strings.HasPrefix(config.Endpoint, "https://") {
		return nil
	}
	return apperrors.NewInvalidConfigError("endpoint must start with http:// or https://")
}

// Complete sends one chat request and returns the assistant message.
//
// A request that never produces an HTTP response is a ConnectionFailed error.
// A non-2xx response is an UpstreamError carrying the status and body.
func (p *OllamaProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatReq := OllamaChatRequest{
		Model: p.config.Model,
		Messages: []OllamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
		Options: &OllamaOptions{
			Temperature: p.config.Temperature,
		},
	}

	requestID := uuid.NewString()
	apperrors.LogAPIRequest(requestID, "ollama", p.config.Endpoint, p.config.Model, len(systemPrompt)+len(userPrompt))
	startTime := time.Now()

	status, resp, err := p.doRequest(ctx, chatReq)
	apperrors.LogAPIResponse(requestID, "ollama", status, len(resp.Message.Content), time.Since(startTime))
	if err != nil {
		return "", err
	}

	if resp.Error != "" {
		return "", apperrors.NewUpstreamError(status, resp.Error)
	}

	return resp.Message.Content, nil
}

// doRequest performs the HTTP request to the Ollama API.
func (p *OllamaProvider) doRequest(ctx context.Context, chatReq OllamaChatRequest) (int, OllamaChatResponse, error) {
	var resp OllamaChatResponse

	body, err := json.Marshal(chatReq)
	if err != nil {
		return 0, resp, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.config.Endpoint + OllamaAPIPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, resp, apperrors.NewConnectionError(p.config.Endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return 0, resp, apperrors.NewConnectionError(p.config.Endpoint, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, resp, apperrors.NewConnectionError(p.config.Endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		appErr := apperrors.NewUpstreamError(httpResp.StatusCode, string(respBody))
		if httpResp.StatusCode == http.StatusNotFound {
			appErr.WithSuggestion(fmt.Sprintf("Pull the model first with 'ollama pull %s'", p.config.Model))
		}
		return httpResp.StatusCode, resp, appErr
	}

	if err := json.Unmarshal(respBody, &resp); err != nil {
		return httpResp.StatusCode, resp, apperrors.NewMalformedResponseError(err)
	}
	if resp.Error == "" && resp.Message.Role == "" && resp.Message.Content == "" && !resp.Done {
		return httpResp.StatusCode, resp, apperrors.NewMalformedResponseError(errors.New("response has no message field"))
	}

	return httpResp.StatusCode, resp, nil
}
