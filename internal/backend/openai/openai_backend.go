package openai

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
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Backend implements port.ModelBackend using the OpenAI Chat Completions API.
type Backend struct {
	id       domain.BackendID
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates an OpenAI-based model backend.
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
		model = "gpt-4o"
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
		return "", fmt.Errorf("openai: %w", domain.ErrBackendUnavailable)
	}

	instruction := backend.BuildInstruction(input.Draft)
	encoded := base64.StdEncoding.EncodeToString(input.Document)
	dataURI := fmt.Sprintf("data:application/pdf;base64,%s", encoded)

	reqBody := map[string]interface{}{
		"model":                 b.model,
		"max_completion_tokens": 16384,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "file",
						"file": map[string]interface{}{
							"filename":  "report.pdf",
							"file_data": dataURI,
						},
					},
					{
						"type": "text",
						"text": instruction,
					},
				},
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
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
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := backend.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", backend.NewRateLimitError("openai", backend.NewBackendError("openai", resp.StatusCode, string(respBody)), retryAfter)
		}
		return "", backend.NewBackendError("openai", resp.StatusCode, string(respBody))
	}

	return extractText(respBody)
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func extractText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return resp.Choices[0].Message.Content, nil
}
