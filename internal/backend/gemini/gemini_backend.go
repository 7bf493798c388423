package gemini

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
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Backend implements port.ModelBackend using Google's Gemini API.
type Backend struct {
	id       domain.BackendID
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a Gemini-based model backend.
func New(id domain.BackendID, cfg *config.BackendConfig) *Backend {
	return newBackend(id, cfg, "")
}

// NewWithEndpoint creates a backend pointing at a custom API endpoint (for testing).
func NewWithEndpoint(id domain.BackendID, cfg *config.BackendConfig, endpoint string) *Backend {
	return newBackend(id, cfg, endpoint)
}

func newBackend(id domain.BackendID, cfg *config.BackendConfig, endpoint string) *Backend {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
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
		return "", fmt.Errorf("gemini: %w", domain.ErrBackendUnavailable)
	}

	instruction := backend.BuildInstruction(input.Draft)
	encoded := base64.StdEncoding.EncodeToString(input.Document)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": "application/pdf",
							"data":      encoded,
						},
					},
					{
						"text": instruction,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  16384,
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
	req.Header.Set("x-goog-api-key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := backend.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", backend.NewRateLimitError("gemini", backend.NewBackendError("gemini", resp.StatusCode, string(respBody)), retryAfter)
		}
		return "", backend.NewBackendError("gemini", resp.StatusCode, string(respBody))
	}

	return extractText(respBody)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func extractText(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from API: no candidates")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
