package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"insureport/internal/backend"
	"insureport/internal/config"
	"insureport/internal/domain"
	"insureport/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Backend implements port.ModelBackend using the Anthropic Messages API.
type Backend struct {
	id       domain.BackendID
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a Claude-based model backend.
func New(id domain.BackendID, cfg *config.BackendConfig) *Backend {
	return newBackend(id, cfg, apiURL)
}

// NewWithEndpoint creates a backend pointing at a custom API endpoint (for testing).
func NewWithEndpoint(id domain.BackendID, cfg *config.BackendConfig, endpoint string) *Backend {
	return newBackend(id, cfg, endpoint)
}

func newBackend(id domain.BackendID, cfg *config.BackendConfig, endpoint string) *Backend {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Backend{
		id:       id,
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *Backend) ID() domain.BackendID { return b.id }

func (b *Backend) Invoke(ctx context.Context, input port.InvokeInput) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("claude: %w", domain.ErrBackendUnavailable)
	}

	instruction := backend.BuildInstruction(input.Draft)
	encoded := base64.StdEncoding.EncodeToString(input.Document)

	reqBody := map[string]interface{}{
		"model":      b.model,
		"max_tokens": 16384,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "document",
						"source": map[string]interface{}{
							"type":       "base64",
							"media_type": "application/pdf",
							"data":       encoded,
						},
					},
					{
						"type": "text",
						"text": instruction,
					},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := backend.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", backend.NewRateLimitError("claude", backend.NewBackendError("claude", resp.StatusCode, string(respBody)), retryAfter)
		}
		return "", backend.NewBackendError("claude", resp.StatusCode, string(respBody))
	}

	return extractText(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func extractText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return resp.Content[0].Text, nil
}
