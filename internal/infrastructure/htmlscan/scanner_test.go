package htmlscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/extract"
)

const fixture = `
<html><body>
  <nav><a href="/om-oss">Om oss</a></nav>
  <main id="main-content">
    <ul>
      <li>
        <a href="/nyheter/ny-vaksine">Ny vaksine godkjent</a>
        <time datetime="2025-06-14">14. juni 2025</time>
      </li>
      <li>
        <a href="/nyheter/gammel-sak">Gammel sak</a>
        <time>1. juni 2025</time>
      </li>
      <li><a href="mailto:post@dmp.no">Kontakt</a></li>
      <li><a href="#top">Til toppen</a></li>
      <li><a href="/nyheter/ny-vaksine">Ny vaksine godkjent</a></li>
    </ul>
  </main>
</body></html>`

func TestExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	sc := NewScanner(server.Client())

	candidates, err := sc.Extract(context.Background(), extract.Request{
		SourceURL: server.URL,
		Selector:  "main#main-content",
	})
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("Extract = %d candidates, want 2: %+v", len(candidates), candidates)
	}

	first := candidates[0]
	if first.Title != "Ny vaksine godkjent" || first.URL != "/nyheter/ny-vaksine" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Published != "2025-06-14" {
		t.Fatalf("datetime attribute not preferred: %q", first.Published)
	}

	if candidates[1].Published != "1. juni 2025" {
		t.Fatalf("text date not captured: %q", candidates[1].Published)
	}
}

func TestExtractWithoutSelector(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	sc := NewScanner(server.Client())

	candidates, err := sc.Extract(context.Background(), extract.Request{SourceURL: server.URL})
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	// whole document: the nav link is included too
	if len(candidates) != 3 {
		t.Fatalf("Extract = %d candidates, want 3: %+v", len(candidates), candidates)
	}
}

func TestExtractBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sc := NewScanner(server.Client())

	if _, err := sc.Extract(context.Background(), extract.Request{SourceURL: server.URL}); err == nil {
		t.Fatal("Extract should fail on non-200 status")
	}
}
