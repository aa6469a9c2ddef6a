package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Kneilands/Papertrail/internal/config"
)

// maxResponseBytes bounds how much of the API response body is read.
const maxResponseBytes = 1 << 20 // 1 MiB

// HuggingFace calls the Hugging Face Inference API summarization endpoint.
type HuggingFace struct {
	apiKey string // unexported; never serialized by encoding/json
	apiURL string
	client *http.Client
}

// NewHuggingFace constructs a summarizer from configuration. The credential
// is captured at construction time; it is never read from the environment
// mid-request.
func NewHuggingFace(cfg config.HuggingFaceConfig) *HuggingFace {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HuggingFace{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ Summarizer = (*HuggingFace)(nil)

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Summarize posts the text to the inference endpoint and returns the summary.
// An error reported by the API is returned as *APIError; anything else
// (connection, timeout, undecodable body) is returned as a plain error.
// A parseable response that carries neither a summary nor an error yields
// ("", nil) and the caller falls back to its placeholder.
func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(hfRequest{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post summarization request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	// Success shape: [{"summary_text": "..."}]
	var summaries []hfSummary
	if err := json.Unmarshal(respBytes, &summaries); err == nil {
		if len(summaries) > 0 && summaries[0].SummaryText != "" {
			return summaries[0].SummaryText, nil
		}
		return "", nil
	}

	// Error shape: {"error": "..."}
	var apiErr hfError
	if err := json.Unmarshal(respBytes, &apiErr); err != nil {
		return "", fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if apiErr.Error != "" {
		return "", &APIError{Message: apiErr.Error}
	}
	return "", nil
}
