// Package htmlscan extracts article candidates locally with goquery, for
// sources that opt out of the remote extraction provider.
package htmlscan

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/domain"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/extract"
)

// Scanner fetches a source page and harvests anchors as candidates.
type Scanner struct {
	client *http.Client
}

var _ extract.Extractor = (*Scanner)(nil)

// NewScanner wires an HTTP client; timeout defaults to 20 seconds.
func NewScanner(client *http.Client) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *Scanner) Name() string {
	return "html"
}

// Extract fetches the source page and returns one candidate per unique link
// inside the configured selector (or the whole document when none is set).
// Published dates are best-effort from the nearest <time> element.
func (s *Scanner) Extract(ctx context.Context, req extract.Request) ([]domain.Candidate, error) {
	doc, err := s.fetchDocument(ctx, req.SourceURL)
	if err != nil {
		return nil, err
	}

	root := doc.Selection
	if req.Selector != "" {
		root = doc.Find(req.Selector)
	}

	var candidates []domain.Candidate
	seen := map[string]struct{}{}

	root.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !isArticleLink(href) {
			return
		}

		title := strings.TrimSpace(a.Text())
		if title == "" {
			return
		}

		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}

		candidates = append(candidates, domain.Candidate{
			Title:     title,
			URL:       href,
			Published: nearestDate(a),
		})
	})

	return candidates, nil
}

func (s *Scanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "HealthTalkScanner/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func isArticleLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	for _, prefix := range []string{"mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(href, prefix) {
			return false
		}
	}
	return true
}

// nearestDate walks up to the enclosing list item or article element and
// reads its first <time>, preferring the machine-readable datetime attribute.
func nearestDate(a *goquery.Selection) string {
	container := a.Closest("article, li")
	if container.Length() == 0 {
		return ""
	}

	timeEl := container.Find("time").First()
	if timeEl.Length() == 0 {
		return ""
	}

	if dt, ok := timeEl.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return strings.TrimSpace(timeEl.Text())
}
