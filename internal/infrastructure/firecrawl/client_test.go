package firecrawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/config"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/extract"
)

func TestNormalizeResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			"envelope with data key",
			`{"success":true,"data":{"articles":[{"title":"A","url":"/a","published":"2025-06-14"},{"title":"B","url":"/b"}]}}`,
			2,
		},
		{
			"bare articles object",
			`{"articles":[{"title":"A","url":"/a","published":null}]}`,
			1,
		},
		{
			"null data falls back to top level",
			`{"data":null,"articles":[{"title":"A","url":"/a"}]}`,
			1,
		},
		{
			"empty articles",
			`{"data":{"articles":[]}}`,
			0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			candidates, err := normalizeResponse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("normalizeResponse error: %v", err)
			}
			if len(candidates) != tt.want {
				t.Fatalf("normalizeResponse = %d candidates, want %d", len(candidates), tt.want)
			}
		})
	}
}

func TestNormalizeResponseNullPublished(t *testing.T) {
	t.Parallel()

	raw := `{"data":{"articles":[{"title":"A","url":"/a","published":null}]}}`
	candidates, err := normalizeResponse([]byte(raw))
	if err != nil {
		t.Fatalf("normalizeResponse error: %v", err)
	}
	if candidates[0].Published != "" {
		t.Fatalf("null published decoded to %q, want empty", candidates[0].Published)
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	plain := buildPrompt("")
	if strings.Contains(plain, "CSS selector") {
		t.Fatal("prompt mentions selector without one configured")
	}

	scoped := buildPrompt("main#main-content")
	if !strings.Contains(scoped, "'main#main-content'") {
		t.Fatalf("prompt missing selector restriction: %s", scoped)
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/extract" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer fc-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_, _ = w.Write([]byte(`{"success":true,"data":{"articles":[{"title":"X","url":"/a1","published":"2025-06-14"}]}}`))
	}))
	defer server.Close()

	client := NewClient(config.FirecrawlConfig{Endpoint: server.URL, APIKey: "fc-test"}, server.Client())

	candidates, err := client.Extract(context.Background(), extract.Request{
		SourceURL: "https://a.test/page",
		Selector:  "main#main-content",
	})
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("Extract = %d candidates, want 1", len(candidates))
	}
	if candidates[0].Title != "X" || candidates[0].URL != "/a1" || candidates[0].Published != "2025-06-14" {
		t.Fatalf("unexpected candidate: %+v", candidates[0])
	}

	urls, ok := gotBody["urls"].([]any)
	if !ok || len(urls) != 1 || urls[0] != "https://a.test/page" {
		t.Fatalf("request urls = %v", gotBody["urls"])
	}
	prompt, _ := gotBody["prompt"].(string)
	if !strings.Contains(prompt, "main#main-content") {
		t.Fatalf("request prompt missing selector: %s", prompt)
	}
}

func TestExtractProviderError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(config.FirecrawlConfig{Endpoint: server.URL, APIKey: "fc-test"}, server.Client())

	_, err := client.Extract(context.Background(), extract.Request{SourceURL: "https://a.test"})
	if err == nil {
		t.Fatal("Extract should propagate provider errors")
	}
}

func TestExtractMissingAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient(config.FirecrawlConfig{Endpoint: "https://api.firecrawl.dev"}, nil)

	_, err := client.Extract(context.Background(), extract.Request{SourceURL: "https://a.test"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Extract error = %v, want ErrMissingAPIKey", err)
	}
}
