package anthropic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invomail/internal/config"
	"invomail/internal/extract"
	"invomail/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	maxTokens  = 16384
)

func init() {
	extract.RegisterProvider("anthropic", func(cfg *config.ExtractProviderConfig) (port.DocumentModel, error) {
		return NewModel(cfg), nil
	})
}

// Model implements port.DocumentModel using the Anthropic Messages API with
// base64 PDF document blocks.
type Model struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewModel creates an Anthropic-backed document model from a provider config.
func NewModel(cfg *config.ExtractProviderConfig) *Model {
	return newModel(cfg, apiURL)
}

// NewModelWithEndpoint creates a model pointing at a custom API endpoint (for testing).
func NewModelWithEndpoint(cfg *config.ExtractProviderConfig, endpoint string) *Model {
	return newModel(cfg, endpoint)
}

func newModel(cfg *config.ExtractProviderConfig, endpoint string) *Model {
	model := cfg.ModelID
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Model{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (m *Model) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if len(input.Documents) > extract.MaxDocumentsPerRequest {
		return nil, fmt.Errorf("anthropic accepts at most %d documents per request, got %d",
			extract.MaxDocumentsPerRequest, len(input.Documents))
	}

	reqBody := map[string]interface{}{
		"model":      m.model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": buildContentBlocks(input),
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", m.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extract.NewRateLimitError("anthropic", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, m.model)
}

// buildContentBlocks assembles one document block per batch document,
// titled with the sanitized display name so the model can fill the filename
// field, followed by the extraction prompt.
func buildContentBlocks(input port.ExtractInput) []map[string]interface{} {
	blocks := make([]map[string]interface{}, 0, len(input.Documents)+1)
	for _, doc := range input.Documents {
		blocks = append(blocks, map[string]interface{}{
			"type":  "document",
			"title": doc.Name,
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       base64.StdEncoding.EncodeToString(doc.Data),
			},
		})
	}
	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": input.Prompt,
	})
	return blocks
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.ExtractOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return &port.ExtractOutput{
		Text:      resp.Content[0].Text,
		ModelUsed: model,
	}, nil
}
