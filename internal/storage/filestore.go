package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/domain"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/ports"
)

// ArticleFileStore persists the article database as a JSON array on disk.
type ArticleFileStore struct {
	path   string
	logger *slog.Logger
}

var _ ports.ArticleStore = (*ArticleFileStore)(nil)

// NewArticleFileStore wires the database file path.
func NewArticleFileStore(path string, logger *slog.Logger) *ArticleFileStore {
	return &ArticleFileStore{path: path, logger: logger}
}

// Load reads the article database; a missing or quarantined file yields an empty slice.
func (s *ArticleFileStore) Load(ctx context.Context) ([]domain.Article, error) {
	var articles []domain.Article
	ok, err := loadJSON(s.path, s.logger, &articles)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return articles, nil
}

// Save writes the full article database atomically.
func (s *ArticleFileStore) Save(ctx context.Context, articles []domain.Article) error {
	if articles == nil {
		articles = []domain.Article{}
	}
	return saveJSON(s.path, articles)
}

// SeenFileStore persists the seen-URL set as a JSON array of strings.
type SeenFileStore struct {
	path   string
	logger *slog.Logger
}

var _ ports.SeenStore = (*SeenFileStore)(nil)

// NewSeenFileStore wires the seen-URL file path.
func NewSeenFileStore(path string, logger *slog.Logger) *SeenFileStore {
	return &SeenFileStore{path: path, logger: logger}
}

// Load reads the seen-URL set; a missing or quarantined file yields an empty set.
func (s *SeenFileStore) Load(ctx context.Context) (map[string]struct{}, error) {
	var urls []string
	ok, err := loadJSON(s.path, s.logger, &urls)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(urls))
	if !ok {
		return seen, nil
	}
	for _, u := range urls {
		seen[u] = struct{}{}
	}
	return seen, nil
}

// Save writes the full seen-URL set atomically, sorted for stable diffs.
func (s *SeenFileStore) Save(ctx context.Context, seen map[string]struct{}) error {
	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return saveJSON(s.path, urls)
}

// loadJSON reads and decodes path into v. Returns false when no usable data
// exists: the file is absent, or it is corrupt and has been quarantined by
// renaming it aside to <path>.broken.
func loadJSON(path string, logger *slog.Logger, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		brokenPath := path + ".broken"
		if renameErr := os.Rename(path, brokenPath); renameErr != nil {
			logger.Error("corrupt state file, quarantine failed",
				"path", path, "parse_error", err, "rename_error", renameErr)
		} else {
			logger.Error("corrupt state file quarantined, starting empty",
				"path", path, "quarantine", brokenPath, "parse_error", err)
		}
		return false, nil
	}

	return true, nil
}

// saveJSON writes v atomically: marshal, write <path>.tmp, rename over path.
func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
