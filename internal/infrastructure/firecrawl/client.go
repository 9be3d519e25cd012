// Package firecrawl adapts the hosted extraction provider to the extractor
// port. Provider-specific response shapes are normalized here and never leak
// past this boundary.
package firecrawl

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

	"github.com/MagnusUndhjem/healthTalk-clean/internal/config"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/domain"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/extract"
)

// ErrMissingAPIKey is returned when the provider credential is absent.
// Callers treat it as a fatal precondition, not a per-source failure.
var ErrMissingAPIKey = errors.New("firecrawl API key is not set")

// Client calls the provider's /v1/extract endpoint for one source at a time.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ extract.Extractor = (*Client)(nil)

// NewClient builds a client from configuration; the HTTP client defaults to
// a 90s timeout because extraction is slow on large pages.
func NewClient(cfg config.FirecrawlConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		http:     client,
	}
}

// Name identifies the strategy inside the registry.
func (c *Client) Name() string {
	return "firecrawl"
}

// Ready reports whether the credential precondition holds.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Extract runs one extraction call and returns the candidate list. There are
// no retries; transient failures propagate to the driver as per-source errors.
func (c *Client) Extract(ctx context.Context, req extract.Request) ([]domain.Candidate, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"urls":   []string{req.SourceURL},
		"prompt": buildPrompt(req.Selector),
		"schema": articleSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal extract request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("extract request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("firecrawl error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read extract response: %w", err)
	}

	return normalizeResponse(raw)
}

func buildPrompt(selector string) string {
	parts := []string{
		"Return an object with key 'articles'.",
		"For every news article on this page include:",
		"title, canonical URL (url), and published date in ISO format if you can find it.",
	}
	if selector != "" {
		parts = append(parts, fmt.Sprintf(
			"Only look inside the HTML element that matches the CSS selector '%s'.", selector))
	}
	return strings.Join(parts, " ")
}

func articleSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"articles": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{"type": "string"},
						"url": map[string]any{
							"type":        "string",
							"description": "Canonical link to the article",
						},
						"published": map[string]any{
							"type":        []string{"string", "null"},
							"description": "Publication date in ISO-8601 (YYYY-MM-DD) if available",
						},
					},
					"required": []string{"title", "url"},
				},
			},
		},
		"required": []string{"articles"},
	}
}

// normalizeResponse accepts both known provider shapes: an envelope with a
// "data" key holding the articles object, or the articles object directly.
func normalizeResponse(raw []byte) ([]domain.Candidate, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode extract response: %w", err)
	}

	payload := envelope.Data
	if len(payload) == 0 || string(payload) == "null" {
		payload = raw
	}

	var page struct {
		Articles []domain.Candidate `json:"articles"`
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, fmt.Errorf("decode articles payload: %w", err)
	}

	return page.Articles, nil
}
