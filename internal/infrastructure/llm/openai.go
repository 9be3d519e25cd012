// Package llm generates article drafts from discovered source text through
// an OpenAI-compatible chat-completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/config"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/ports"
)

const systemPrompt = "Du er en erfaren helsejournalist for HealthTalk.no"

// fallbackHTMLLimit caps how much raw page HTML goes into a fallback prompt.
const fallbackHTMLLimit = 12000

// OpenAIClient implements ports.DraftWriter against chat-completions APIs.
type OpenAIClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.DraftWriter = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GenerateDraft writes an article draft in the configured length preset.
// When rawText is empty the source page HTML is fetched and used as a
// degraded prompt basis instead.
func (c *OpenAIClient) GenerateDraft(ctx context.Context, rawText, sourceURL, category, length string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("openai client misconfigured")
	}

	prompt := buildPrompt(rawText, sourceURL, category, length)
	if strings.TrimSpace(rawText) == "" {
		html, err := c.fetchPage(ctx, sourceURL)
		if err != nil {
			html = ""
		}
		prompt = buildFallbackPrompt(html, sourceURL, category, length)
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
		"max_tokens":  maxTokensFor(length),
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, fallbackHTMLLimit))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(raw), nil
}

// maxTokensFor maps the editorial length presets onto token budgets.
func maxTokensFor(length string) int {
	switch {
	case strings.Contains(length, "366"):
		return 450
	case strings.Contains(strings.ToLower(length), "lang"):
		return 1400
	default:
		return 850
	}
}

func lengthInstruction(length string) string {
	switch {
	case strings.Contains(length, "366"):
		return "Skriv en artikkel (tittel + ingress + brødtekst) der selve brødteksten er maks 366 tegn totalt (inkludert mellomrom og punktum). Bruk klar, aktiv journalistisk stil. Ikke overskrid grensen."
	case strings.Contains(length, "700"):
		return "Skriv en artikkel der brødteksten er maks 700 tegn totalt (inkludert mellomrom og punktum)."
	case strings.Contains(strings.ToLower(length), "notis"):
		return "Skriv en kort notis. Den skal være maks 2-4 setninger (ca. 50-100 ord)."
	default:
		return "Skriv en fyldig artikkel der brødteksten er minst 1000 tegn og gjerne lenger (1200-1500 tegn)."
	}
}

func buildPrompt(rawText, sourceURL, category, length string) string {
	return fmt.Sprintf(
		"Du er helsejournalist for HealthTalk. Skriv en artikkel i kategorien %s basert på denne kildeteksten, i en journalistisk, nøytral og objektiv stil. Ikke endre direkte sitater. %s\n\nKilde: %s\n\n%s",
		category, lengthInstruction(length), sourceURL, rawText)
}

func buildFallbackPrompt(html, sourceURL, category, length string) string {
	return fmt.Sprintf(
		"Du er helsejournalist for HealthTalk. Kildeteksten kunne ikke hentes; bruk rå HTML under til å forstå innholdet og skriv en artikkel i kategorien %s. %s\n\nKilde: %s\n\n%s",
		category, lengthInstruction(length), sourceURL, html)
}
