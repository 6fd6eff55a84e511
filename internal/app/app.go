package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"PublicationsImporter/internal/config"
	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/extraction"
	"PublicationsImporter/internal/infrastructure/fetcher"
	"PublicationsImporter/internal/infrastructure/llm"
	"PublicationsImporter/internal/infrastructure/parser"
	"PublicationsImporter/internal/infrastructure/records"
	"PublicationsImporter/internal/infrastructure/scheduler"
	"PublicationsImporter/internal/infrastructure/storage"
	"PublicationsImporter/internal/infrastructure/telegram"
	"PublicationsImporter/internal/logging"
	"PublicationsImporter/internal/ports"
	"PublicationsImporter/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	store  storage.Repository
}

// Open connects the configured document store. The import pipeline is
// assembled on demand so read-only commands need no API key.
func Open(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(ctx, cfg.Database, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	return &Application{cfg: cfg, logger: baseLogger, store: store}, nil
}

// Store exposes the document store for read commands.
func (a *Application) Store() ports.DocumentStore {
	return a.store
}

// Close releases the document store.
func (a *Application) Close(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	return a.store.Close(ctx)
}

// Importer validates the configuration and assembles the pipeline.
func (a *Application) Importer() (*usecase.Importer, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry := parser.NewRegistry()
	extractor := extraction.NewExtractor(registry, a.logger.With("component", "extractor"))

	summarizer, err := newSummarizer(a.cfg.ChatGPT, a.logger.With("component", "summarizer"))
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if a.cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(a.cfg.Notifications.Telegram)
	}

	return usecase.NewImporter(usecase.ImporterDeps{
		Source:      records.NewCSVSource(a.logger.With("component", "records")),
		Fetcher:     fetcher.New(a.cfg.Fetcher, nil, a.logger.With("component", "fetcher")),
		Extractor:   extractor,
		Summarizer:  summarizer,
		Store:       a.store,
		Notifier:    notifier,
		Logger:      a.logger.With("component", "importer"),
		Concurrency: a.cfg.Importer.Concurrency,
	})
}

// Import runs one batch from the file at path.
func (a *Application) Import(ctx context.Context, path string) (domain.BatchReport, error) {
	importer, err := a.Importer()
	if err != nil {
		return domain.BatchReport{}, err
	}
	return importer.Import(ctx, path)
}

// Watch re-imports path on the configured schedule until ctx is done.
func (a *Application) Watch(ctx context.Context, path string) error {
	importer, err := a.Importer()
	if err != nil {
		return err
	}

	driver := scheduler.NewCronScheduler(
		a.cfg.Scheduler.CronExpression,
		a.cfg.Scheduler.Location(),
		a.logger.With("component", "scheduler"),
	)
	watcher := usecase.NewScheduler(driver, importer, path, a.logger.With("component", "watch"))
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	if err := watcher.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func newSummarizer(cfg config.ChatGPTConfig, logger *slog.Logger) (ports.Summarizer, error) {
	switch cfg.Provider {
	case config.ProviderLangChain:
		s, err := llm.NewLangChainSummarizer(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.ProviderHTTP, "":
		return llm.NewChatGPTClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}
