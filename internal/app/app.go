package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/config"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/extract"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/infrastructure/firecrawl"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/infrastructure/htmlscan"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/infrastructure/llm"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/infrastructure/scheduler"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/infrastructure/telegram"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/logging"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/ports"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/storage"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/usecase"
)

// Application wires configuration to adapters and the discovery pipeline.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	drafts   ports.DraftWriter
	postgres *storage.PostgresRepository
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := extract.NewRegistry()
	registry.Register(firecrawl.NewClient(cfg.Firecrawl, nil))
	registry.Register(htmlscan.NewScanner(nil))

	storeLogger := baseLogger.With("component", "storage")
	articleStore := storage.NewArticleFileStore(cfg.Pipeline.DatabaseFile, storeLogger)
	seenStore := storage.NewSeenFileStore(cfg.Pipeline.SeenURLsFile, storeLogger)
	lock := storage.NewFileLock(cfg.Pipeline.DatabaseFile + ".lock")

	var repository ports.ArticleRepository
	var pg *storage.PostgresRepository
	if cfg.Database.DSN != "" {
		var err error
		pg, err = storage.OpenPostgres(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open article mirror: %w", err)
		}
		repository = pg
	}

	var notifier ports.Notifier
	tg := cfg.Notifications.Telegram
	if tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Registry:      registry,
		Extractors:    cfg.Extractors,
		Selectors:     cfg.Selectors,
		SourcesFile:   cfg.Pipeline.SourcesFile,
		Articles:      articleStore,
		Seen:          seenStore,
		Repository:    repository,
		Notifier:      notifier,
		Lock:          lock,
		WindowDays:    cfg.Pipeline.WindowDays,
		SourceTimeout: cfg.Pipeline.SourceTimeout(),
		Logger:        baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		drafts:   llm.NewOpenAIClient(cfg.OpenAI),
		postgres: pg,
	}, nil
}

// RunOnce executes a single discovery run for today.
func (a *Application) RunOnce(ctx context.Context) error {
	return a.pipeline.Run(ctx, time.Now().In(a.cfg.Scheduler.Location()))
}

// RunDaemon executes discovery runs on the configured schedule until ctx ends.
func (a *Application) RunDaemon(ctx context.Context) error {
	driver, err := scheduler.NewDailyScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	sched := usecase.NewScheduler(driver, a.pipeline, a.cfg.Scheduler.Location(), a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// GenerateDraft writes an article draft from discovered source material.
// Empty rawText falls back to fetching the page behind sourceURL.
func (a *Application) GenerateDraft(ctx context.Context, rawText, sourceURL, category, length string) (string, error) {
	return a.drafts.GenerateDraft(ctx, rawText, sourceURL, category, length)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}
