// Package sources owns the single parsing rule for the source-list file:
// one URL per line, blank lines and '#' comments skipped. Both the pipeline
// loader and the management surface go through it.
package sources

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Load reads the source list. A missing file yields an empty list, not an error.
func Load(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}

// Save overwrites the source list with the given URLs, deduplicated and sorted.
func Save(path string, urls []string) error {
	unique := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		unique[u] = struct{}{}
	}

	sorted := make([]string, 0, len(unique))
	for u := range unique {
		sorted = append(sorted, u)
	}
	sort.Strings(sorted)

	var b strings.Builder
	for _, u := range sorted {
		b.WriteString(u)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write sources file: %w", err)
	}
	return nil
}
