// Package ai provides the model provider abstraction and its implementations for ai-commit.
package ai

import (
	"context"
	"net/http"
	"time"
)

// Provider turns a system prompt and a user prompt into a single completion.
//
// Implementations perform exactly one attempt per call. Retrying is left to the caller.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ProviderConfig contains configuration for a network-backed provider.
type ProviderConfig struct {
	APIKey      string
	Model       string
	Endpoint    string
	Temperature float32
	Timeout     time.Duration
}

// DefaultTimeout bounds a single completion request when none is configured.
const DefaultTimeout = 60 * time.Second

// newHTTPClient builds a client with connection pooling and a mandatory timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
