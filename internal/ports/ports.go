package ports

import (
	"context"
	"time"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/domain"
)

// ArticleStore persists the article database (system of record for the archive).
type ArticleStore interface {
	Load(ctx context.Context) ([]domain.Article, error)
	Save(ctx context.Context, articles []domain.Article) error
}

// SeenStore persists the set of every URL the pipeline has ever evaluated.
type SeenStore interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Save(ctx context.Context, seen map[string]struct{}) error
}

// ArticleRepository mirrors accepted articles into a transactional store.
type ArticleRepository interface {
	SaveAccepted(ctx context.Context, article domain.Article) error
}

// Notifier announces run outcomes to an external channel.
type Notifier interface {
	PublishRunSummary(ctx context.Context, stats domain.RunStats) error
}

// DraftWriter turns raw source text into an article draft.
type DraftWriter interface {
	GenerateDraft(ctx context.Context, rawText, sourceURL, category, length string) (string, error)
}

// Scheduler controls when pipeline runs execute in daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// RunLock guards the persisted state pair against concurrent runs.
type RunLock interface {
	Acquire() error
	Release() error
}
