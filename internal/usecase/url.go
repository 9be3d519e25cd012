package usecase

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveURL returns the candidate as an absolute URL. Candidates that
// already carry an http(s) scheme pass through unchanged; everything else is
// resolved against the source page URL with standard base-join semantics.
func ResolveURL(base, candidate string) (string, error) {
	if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
		return candidate, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %s: %w", base, err)
	}

	ref, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse candidate url %s: %w", candidate, err)
	}

	return baseURL.ResolveReference(ref).String(), nil
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		// degraded fallback for scheme-less entries in sources.txt
		trimmed := rawURL
		if idx := strings.Index(trimmed, "//"); idx >= 0 {
			trimmed = trimmed[idx+2:]
		}
		if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		return trimmed
	}
	return u.Hostname()
}
