package ports

import (
	"context"
	"time"

	"PublicationsImporter/internal/domain"
)

// RecordSource loads a batch of input records from a tabular file.
type RecordSource interface {
	Load(ctx context.Context, path string) ([]domain.Record, error)
}

// Fetcher retrieves and classifies a document. Failures are reported as
// domain.KindNone, never as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) domain.FetchResult
}

// Extractor turns classified content into a bounded excerpt.
type Extractor interface {
	Extract(result domain.FetchResult) string
}

// Summarizer generates the bullet-point digest of an excerpt.
type Summarizer interface {
	Summarize(ctx context.Context, title, excerpt string) (string, error)
}

// DocumentStore persists processed publications. It enforces no uniqueness.
type DocumentStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Append(ctx context.Context, doc domain.StoredDocument) (string, error)
	ListRecent(ctx context.Context, limit int) ([]domain.StoredDocument, error)
	Get(ctx context.Context, id string) (domain.StoredDocument, error)
}

// Notifier streams batch reports to Telegram or other channels.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
