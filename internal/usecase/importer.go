package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/logging"
	"PublicationsImporter/internal/ports"
)

// DefaultConcurrency bounds in-flight records when none is configured.
const DefaultConcurrency = 3

// ImporterDeps wires all driven adapters into the import workflow.
type ImporterDeps struct {
	Source      ports.RecordSource
	Fetcher     ports.Fetcher
	Extractor   ports.Extractor
	Summarizer  ports.Summarizer
	Store       ports.DocumentStore
	Notifier    ports.Notifier
	Logger      *slog.Logger
	Concurrency int
	Now         func() time.Time
}

// Importer runs the per-record pipeline over a batch with a fixed bound on
// records in flight.
type Importer struct {
	source      ports.RecordSource
	fetcher     ports.Fetcher
	extractor   ports.Extractor
	summarizer  ports.Summarizer
	gate        *Gate
	notifier    ports.Notifier
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// NewImporter validates the dependencies. Source and Notifier are optional;
// the other collaborators are required.
func NewImporter(deps ImporterDeps) (*Importer, error) {
	var missing []error
	if deps.Fetcher == nil {
		missing = append(missing, errors.New("fetcher is required"))
	}
	if deps.Extractor == nil {
		missing = append(missing, errors.New("extractor is required"))
	}
	if deps.Summarizer == nil {
		missing = append(missing, errors.New("summarizer is required"))
	}
	if deps.Store == nil {
		missing = append(missing, errors.New("document store is required"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}

	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Importer{
		source:      deps.Source,
		fetcher:     deps.Fetcher,
		extractor:   deps.Extractor,
		summarizer:  deps.Summarizer,
		gate:        NewGate(deps.Store, now),
		notifier:    deps.Notifier,
		logger:      logger,
		concurrency: concurrency,
		now:         now,
	}, nil
}

// Import loads the records at path and runs them. Only a failing record
// source is returned as an error; per-record failures live in the report.
func (i *Importer) Import(ctx context.Context, path string) (domain.BatchReport, error) {
	if i.source == nil {
		return domain.BatchReport{}, errors.New("importer has no record source")
	}

	records, err := i.source.Load(ctx, path)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("load records: %w", err)
	}

	report := i.Run(ctx, records)
	i.publish(ctx, path, report)
	return report, nil
}

// Run attempts every record and returns once all have reached a terminal
// status. Outcomes keep input order.
func (i *Importer) Run(ctx context.Context, records []domain.Record) domain.BatchReport {
	report := domain.BatchReport{
		Outcomes:  make([]domain.RecordOutcome, len(records)),
		StartedAt: i.now().UTC(),
	}
	i.logger.Info("batch started", "records", len(records), "concurrency", i.concurrency)

	var group errgroup.Group
	group.SetLimit(i.concurrency)
	for idx, rec := range records {
		group.Go(func() error {
			report.Outcomes[idx] = i.process(ctx, rec)
			return nil
		})
	}
	_ = group.Wait()

	report.FinishedAt = i.now().UTC()
	LogReport(i.logger, report)
	return report
}

func (i *Importer) process(ctx context.Context, rec domain.Record) domain.RecordOutcome {
	outcome := domain.RecordOutcome{Record: rec}
	logger := i.logger.With("row", rec.Row, "url", rec.URL)

	if !rec.Valid() {
		logger.Warn("skipping record without url", "title", rec.Title)
		outcome.Status = domain.StatusInvalid
		outcome.Err = domain.ErrInvalidRecord
		return outcome
	}

	if err := ctx.Err(); err != nil {
		return cancelled(logger, outcome, err)
	}

	exists, err := i.gate.Exists(ctx, rec.URL)
	if err != nil {
		logger.Error("dedup check failed", "error", err)
		outcome.Status = domain.StatusStoreFailed
		outcome.Err = fmt.Errorf("dedup check: %w", err)
		return outcome
	}
	if exists {
		logger.Info("already imported, skipping", "title", rec.Title)
		outcome.Status = domain.StatusDuplicate
		return outcome
	}

	logger.Debug("fetching", "title", rec.Title)
	fetched := i.fetcher.Fetch(ctx, rec.URL)
	// a fetch cut short by cancellation was never really attempted
	if err := ctx.Err(); err != nil {
		return cancelled(logger, outcome, err)
	}
	if fetched.Failed() {
		logger.Warn("fetch failed, storing stub")
		return i.persist(ctx, logger, outcome, domain.StoredDocument{
			Title:   rec.Title,
			URL:     rec.URL,
			Fetched: false,
		}, domain.StatusFetchFailed, domain.ErrFetchFailed)
	}

	excerpt := i.extractor.Extract(fetched)
	doc := domain.StoredDocument{
		Title:       rec.Title,
		URL:         rec.URL,
		Fetched:     true,
		ContentKind: fetched.Kind,
		Excerpt:     excerpt,
	}

	summary, err := i.summarizer.Summarize(ctx, rec.Title, excerpt)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelled(logger, outcome, ctxErr)
	}
	if err != nil {
		logger.Warn("summarization failed", "error", err)
		doc.Error = err.Error()
		return i.persist(ctx, logger, outcome, doc, domain.StatusSummarizeFailed, err)
	}

	doc.Summary = summary
	return i.persist(ctx, logger, outcome, doc, domain.StatusSucceeded, nil)
}

func cancelled(logger *slog.Logger, outcome domain.RecordOutcome, cause error) domain.RecordOutcome {
	logger.Warn("batch cancelled, record left for a later run", "error", cause)
	outcome.Status = domain.StatusCancelled
	outcome.Err = cause
	return outcome
}

func (i *Importer) persist(
	ctx context.Context,
	logger *slog.Logger,
	outcome domain.RecordOutcome,
	doc domain.StoredDocument,
	status domain.OutcomeStatus,
	cause error,
) domain.RecordOutcome {
	id, err := i.gate.Persist(ctx, doc)
	if err != nil {
		logger.Error("persist failed", "error", err)
		outcome.Status = domain.StatusStoreFailed
		outcome.Err = errors.Join(cause, fmt.Errorf("persist: %w", err))
		return outcome
	}

	logger.Info("record stored", "status", status, "id", id)
	outcome.Status = status
	outcome.DocumentID = id
	outcome.Err = cause
	return outcome
}

func (i *Importer) publish(ctx context.Context, path string, report domain.BatchReport) {
	if i.notifier == nil {
		return
	}
	if err := i.notifier.Publish(ctx, FormatReport(path, report)); err != nil {
		i.logger.Warn("report notification failed", "error", err)
	}
}
