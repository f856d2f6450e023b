package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

func TestNewOllamaProvider_DefaultValues(t *testing.T) {
	provider, err := NewOllamaProvider(ProviderConfig{})
	require.NoError(t, err)

	cfg := provider.config
	assert.Equal(t, DefaultOllamaModel, cfg.Model)
	assert.Equal(t, DefaultOllamaEndpoint, cfg.Endpoint)
	assert.Zero(t, cfg.Temperature)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultTimeout, provider.httpClient.Timeout)
}

func TestNewOllamaProvider_CustomValues(t *testing.T) {
	provider, err := NewOllamaProvider(ProviderConfig{
		Model:    "mistral",
		Endpoint: "http://192.168.1.100:11434/",
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	cfg := provider.config
	assert.Equal(t, "mistral", cfg.Model)
	assert.Equal(t, "http://192.168.1.100:11434", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, provider.httpClient.Timeout)
}

func TestNewOllamaProvider_InvalidEndpoint(t *testing.T) {
	_, err := NewOllamaProvider(ProviderConfig{Endpoint: "localhost:11434"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidConfig))
}

func TestOllamaProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, OllamaAPIPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req OllamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, OllamaMessage{Role: "system", Content: "Be terse."}, req.Messages[0])
		assert.Equal(t, OllamaMessage{Role: "user", Content: "diff --git a/f b/f\n+x"}, req.Messages[1])

		json.NewEncoder(w).Encode(OllamaChatResponse{
			Model:   req.Model,
			Message: OllamaMessage{Role: "assistant", Content: "  feat: add x\n"},
			Done:    true,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(ProviderConfig{Endpoint: server.URL})
	require.NoError(t, err)

	got, err := provider.Complete(context.Background(), "Be terse.", "diff --git a/f b/f\n+x")
	require.NoError(t, err)
	assert.Equal(t, "  feat: add x\n", got, "the provider returns the completion untouched")
}

func TestOllamaProvider_Complete_SendsTemperature(t *testing.T) {
	for _, temp := range []float32{0, 0.7} {
		var got map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Options map[string]interface{} `json:"options"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			got = req.Options
			json.NewEncoder(w).Encode(OllamaChatResponse{Message: OllamaMessage{Role: "assistant", Content: "ok"}, Done: true})
		}))

		provider, err := NewOllamaProvider(ProviderConfig{Endpoint: server.URL, Temperature: temp})
		require.NoError(t, err)
		_, err = provider.Complete(context.Background(), "s", "u")
		server.Close()
		require.NoError(t, err)

		require.Contains(t, got, "temperature", "temperature %v must be sent", temp)
		assert.InDelta(t, float64(temp), got["temperature"], 1e-6)
	}
}

func TestOllamaProvider_Complete_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "internal server error"},
		{"model not found", http.StatusNotFound, `{"error":"model 'nope' not found"}`},
		{"bad request", http.StatusBadRequest, "bad request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, err := NewOllamaProvider(ProviderConfig{Endpoint: server.URL})
			require.NoError(t, err)

			_, err = provider.Complete(context.Background(), "s", "u")
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrUpstream))

			appErr := apperrors.GetAppError(err)
			assert.Equal(t, tt.status, appErr.Context["status"])
			assert.Equal(t, tt.body, appErr.Context["body"])
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retries")
		})
	}
}

func TestOllamaProvider_Complete_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	provider, err := NewOllamaProvider(ProviderConfig{Endpoint: endpoint})
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConnectionFailed))
	assert.NotNil(t, apperrors.GetAppError(err).Cause)
}

func TestOllamaProvider_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(ProviderConfig{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = provider.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConnectionFailed))
	assert.Less(t, time.Since(start), time.Second)
}

func TestOllamaProvider_Complete_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(ProviderConfig{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), "s", "u")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrMalformedResponse))
}

func TestOllamaProvider_Complete_ErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"model is loading"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(ProviderConfig{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), "s", "u")
	require.True(t, apperrors.HasCode(err, apperrors.ErrUpstream))
	assert.Equal(t, "model is loading", apperrors.GetAppError(err).Context["body"])
}

func TestOllamaProvider_Complete_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(ProviderConfig{Endpoint: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = provider.Complete(ctx, "s", "u")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConnectionFailed))
}
