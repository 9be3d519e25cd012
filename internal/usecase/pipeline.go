package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/config"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/domain"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/extract"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/ports"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/recency"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/sources"
)

// Fallback title matching what the editorial archive already displays.
const missingTitle = "Mangler tittel"

// PipelineDeps wires all driven adapters into the discovery pipeline.
type PipelineDeps struct {
	Registry      *extract.Registry
	Extractors    config.ExtractorConfig
	Selectors     map[string]string
	SourcesFile   string
	Articles      ports.ArticleStore
	Seen          ports.SeenStore
	Repository    ports.ArticleRepository
	Notifier      ports.Notifier
	Lock          ports.RunLock
	WindowDays    int
	SourceTimeout time.Duration
	Logger        *slog.Logger
}

// Pipeline implements the discovery-and-deduplication run.
type Pipeline struct {
	registry      *extract.Registry
	extractors    config.ExtractorConfig
	selectors     map[string]string
	sourcesFile   string
	articles      ports.ArticleStore
	seen          ports.SeenStore
	repository    ports.ArticleRepository
	notifier      ports.Notifier
	lock          ports.RunLock
	windowDays    int
	sourceTimeout time.Duration
	logger        *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	windowDays := deps.WindowDays
	if windowDays <= 0 {
		windowDays = 3
	}
	sourceTimeout := deps.SourceTimeout
	if sourceTimeout <= 0 {
		sourceTimeout = 60 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		registry:      deps.Registry,
		extractors:    deps.Extractors,
		selectors:     deps.Selectors,
		sourcesFile:   deps.SourcesFile,
		articles:      deps.Articles,
		seen:          deps.Seen,
		repository:    deps.Repository,
		notifier:      deps.Notifier,
		lock:          deps.Lock,
		windowDays:    windowDays,
		sourceTimeout: sourceTimeout,
		logger:        logger,
	}
}

// readyChecker is implemented by extractors with startup preconditions
// (e.g. a required provider credential).
type readyChecker interface {
	Ready() error
}

// Run executes one discovery pass for the given day: scan every source,
// normalize and dedup candidates, filter by recency, and persist state.
func (p *Pipeline) Run(ctx context.Context, today time.Time) error {
	if p.lock != nil {
		if err := p.lock.Acquire(); err != nil {
			return fmt.Errorf("run lock: %w", err)
		}
		defer func() { _ = p.lock.Release() }()
	}

	srcs, err := sources.Load(p.sourcesFile)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	if len(srcs) == 0 {
		p.logger.Info("no sources configured, nothing to do")
		return nil
	}

	if err := p.preflight(srcs); err != nil {
		return err
	}

	db, err := p.articles.Load(ctx)
	if err != nil {
		return fmt.Errorf("load article database: %w", err)
	}
	seen, err := p.seen.Load(ctx)
	if err != nil {
		return fmt.Errorf("load seen urls: %w", err)
	}

	todayISO := today.Format("2006-01-02")
	stats := domain.RunStats{Sources: len(srcs)}

	p.logger.Info("run starting",
		"sources", len(srcs), "articles", len(db), "seen_urls", len(seen))

	for _, src := range srcs {
		logger := p.logger.With("source", src)

		strategy, err := p.registry.Resolve(p.extractors.Resolve(domainOf(src)))
		if err != nil {
			logger.Error("skipping source", "error", err)
			stats.FailedSources++
			continue
		}

		srcCtx, cancel := context.WithTimeout(ctx, p.sourceTimeout)
		candidates, err := strategy.Extract(srcCtx, extract.Request{
			SourceURL: src,
			Selector:  p.selectors[domainOf(src)],
		})
		cancel()
		if err != nil {
			// one failing source must not abort the run
			logger.Error("extraction failed, skipping source", "error", err)
			stats.FailedSources++
			continue
		}
		if len(candidates) == 0 {
			logger.Info("no articles found")
			continue
		}

		for _, cand := range candidates {
			stats.Candidates++
			if cand.URL == "" {
				continue
			}

			absURL, err := ResolveURL(src, cand.URL)
			if err != nil {
				logger.Warn("unresolvable candidate url", "url", cand.URL, "error", err)
				continue
			}

			if _, ok := seen[absURL]; ok {
				continue
			}

			if recency.IsRecent(cand.Published, p.windowDays, today) {
				article := domain.Article{
					Title:     cand.Title,
					URL:       absURL,
					Published: cand.Published,
					FoundDate: todayISO,
				}
				if article.Title == "" {
					article.Title = missingTitle
				}

				db = append(db, article)
				stats.Accepted++
				logger.Info("new article", "title", article.Title, "url", absURL)

				if p.repository != nil {
					if err := p.repository.SaveAccepted(ctx, article); err != nil {
						logger.Warn("mirror save failed", "url", absURL, "error", err)
					}
				}
			} else {
				logger.Debug("stale article", "url", absURL, "published", cand.Published)
			}

			// rejected URLs are remembered too, so they are never re-evaluated
			seen[absURL] = struct{}{}
		}

		// checkpoint after every source: a crash loses at most one source's work
		if err := p.persist(ctx, db, seen); err != nil {
			logger.Warn("checkpoint failed", "error", err)
		}
	}

	sort.SliceStable(db, func(i, j int) bool {
		return db[i].FoundDate > db[j].FoundDate
	})

	if err := p.persist(ctx, db, seen); err != nil {
		return err
	}

	p.logger.Info("run finished",
		"new_articles", stats.Accepted,
		"failed_sources", stats.FailedSources,
		"total_articles", len(db))

	if p.notifier != nil {
		if err := p.notifier.PublishRunSummary(ctx, stats); err != nil {
			p.logger.Warn("run notification failed", "error", err)
		}
	}

	return nil
}

// preflight fails the whole run before any source is processed when a
// strategy the source list depends on cannot work (missing credential).
func (p *Pipeline) preflight(srcs []string) error {
	checked := map[string]struct{}{}
	for _, src := range srcs {
		name := p.extractors.Resolve(domainOf(src))
		if _, ok := checked[name]; ok {
			continue
		}
		checked[name] = struct{}{}

		strategy, err := p.registry.Resolve(name)
		if err != nil {
			continue // reported per source during the run
		}
		if rc, ok := strategy.(readyChecker); ok {
			if err := rc.Ready(); err != nil {
				return fmt.Errorf("extractor %s: %w", name, err)
			}
		}
	}
	return nil
}

func (p *Pipeline) persist(ctx context.Context, db []domain.Article, seen map[string]struct{}) error {
	if err := p.articles.Save(ctx, db); err != nil {
		return fmt.Errorf("save article database: %w", err)
	}
	if err := p.seen.Save(ctx, seen); err != nil {
		return fmt.Errorf("save seen urls: %w", err)
	}
	return nil
}
