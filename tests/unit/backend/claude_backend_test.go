package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insureport/internal/backend"
	"insureport/internal/backend/claude"
	"insureport/internal/config"
	"insureport/internal/domain"
)

func claudeTextResponse(text, stopReason string) string {
	resp := map[string]interface{}{
		"content":     []map[string]interface{}{{"type": "text", "text": text}},
		"stop_reason": stopReason,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestClaudeBackend_Invoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "messages")

		_, _ = w.Write([]byte(claudeTextResponse(`{"contracts": []}`, "end_turn")))
	}))
	defer server.Close()

	b := claude.NewWithEndpoint(domain.BackendModelC, &config.BackendConfig{APIKey: "test-key"}, server.URL)
	text, err := b.Invoke(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, `{"contracts": []}`, text)
}

func TestClaudeBackend_MissingAPIKey(t *testing.T) {
	b := claude.New(domain.BackendModelC, &config.BackendConfig{})

	_, err := b.Invoke(context.Background(), testInput())

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestClaudeBackend_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	b := claude.NewWithEndpoint(domain.BackendModelC, &config.BackendConfig{APIKey: "test-key"}, server.URL)
	_, err := b.Invoke(context.Background(), testInput())

	var rlErr *backend.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, "5s", rlErr.RetryAfter.String())
}

func TestClaudeBackend_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(claudeTextResponse(`{"contracts": [`, "max_tokens")))
	}))
	defer server.Close()

	b := claude.NewWithEndpoint(domain.BackendModelC, &config.BackendConfig{APIKey: "test-key"}, server.URL)
	_, err := b.Invoke(context.Background(), testInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}
