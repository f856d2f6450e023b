package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

// openAIPathSuffix is appended to endpoints that name only the server root.
const openAIPathSuffix = "/v1"

// OpenAIProvider implements Provider against any OpenAI-compatible
// chat completions API, including Ollama's /v1 endpoint.
type OpenAIProvider struct {
	client  *openai.Client
	config  ProviderConfig
	baseURL string
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(config ProviderConfig) (*OpenAIProvider, error) {
	if err := validateOllamaConfig(config); err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultOllamaEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	baseURL := strings.TrimRight(config.Endpoint, "/")
	if !strings.HasSuffix(baseURL, openAIPathSuffix) {
		baseURL += openAIPathSuffix
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = newHTTPClient(config.Timeout)

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		baseURL: baseURL,
	}, nil
}

// Complete sends one chat completion request and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: requestTemperature(p.config.Temperature),
	}

	requestID := uuid.NewString()
	apperrors.LogAPIRequest(requestID, "openai", p.baseURL, p.config.Model, len(systemPrompt)+len(userPrompt))
	startTime := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		apperrors.LogAPIResponse(requestID, "openai", statusOf(err), 0, time.Since(startTime))
		return "", p.wrapAPIError(err)
	}

	if len(resp.Choices) == 0 {
		apperrors.LogAPIResponse(requestID, "openai", 200, 0, time.Since(startTime))
		return "", apperrors.NewMalformedResponseError(errors.New("response has no choices"))
	}

	content := resp.Choices[0].Message.Content
	apperrors.LogAPIResponse(requestID, "openai", 200, len(content), time.Since(startTime))

	return content, nil
}

// requestTemperature keeps an explicit 0 in the request; go-openai omits a
// zero temperature and the server would apply its own default.
func requestTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// statusOf returns the HTTP status carried by a client error, or 0.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// wrapAPIError maps client errors onto the provider error kinds.
func (p *OpenAIProvider) wrapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewUpstreamError(apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return apperrors.NewUpstreamError(reqErr.HTTPStatusCode, body)
	}

	return apperrors.NewConnectionError(p.baseURL, fmt.Errorf("chat completion failed: %w", err))
}
