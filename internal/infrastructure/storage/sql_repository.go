package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
)

const publicationsTable = "publications"

var publicationColumns = []string{
	"id", "title", "url", "fetched", "content_kind", "excerpt", "summary", "error", "created_at",
}

// SQLRepository persists publications into Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.DocumentStore = (*SQLRepository)(nil)

// NewSQLRepository wires a sql.DB. Postgres uses $n placeholders, every
// other dialect uses ?.
func NewSQLRepository(db *sql.DB, dialect string) *SQLRepository {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == "postgres" {
		placeholder = sq.Dollar
	}
	return &SQLRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Migrate creates the publications table and its URL index.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			fetched BOOLEAN NOT NULL,
			content_kind TEXT,
			excerpt TEXT,
			summary TEXT,
			error TEXT,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_url ON publications (url)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_created_at ON publications (created_at)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate publications: %w", err)
		}
	}
	return nil
}

// ExistsByURL reports whether any publication was stored for url.
func (r *SQLRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	query, args, err := r.builder.
		Select("1").
		From(publicationsTable).
		Where(sq.Eq{"url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}
	return true, nil
}

// Append inserts a new publication and returns its generated ID.
func (r *SQLRepository) Append(ctx context.Context, doc domain.StoredDocument) (string, error) {
	id := uuid.NewString()
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := r.builder.
		Insert(publicationsTable).
		Columns(publicationColumns...).
		Values(
			id,
			doc.Title,
			doc.URL,
			doc.Fetched,
			nullable(string(doc.ContentKind)),
			nullable(doc.Excerpt),
			nullable(doc.Summary),
			nullable(doc.Error),
			createdAt.UnixNano(),
		).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert publication: %w", err)
	}
	return id, nil
}

// ListRecent returns up to limit publications, newest first.
func (r *SQLRepository) ListRecent(ctx context.Context, limit int) ([]domain.StoredDocument, error) {
	if limit <= 0 {
		return nil, nil
	}

	query, args, err := r.builder.
		Select(publicationColumns...).
		From(publicationsTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}

	var docs []domain.StoredDocument
	for rows.Next() {
		doc, err := scanPublication(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		docs = append(docs, doc)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return docs, nil
}

// Get loads one publication by ID.
func (r *SQLRepository) Get(ctx context.Context, id string) (domain.StoredDocument, error) {
	query, args, err := r.builder.
		Select(publicationColumns...).
		From(publicationsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.StoredDocument{}, fmt.Errorf("build get query: %w", err)
	}

	doc, err := scanPublication(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoredDocument{}, fmt.Errorf("publication %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.StoredDocument{}, err
	}
	return doc, nil
}

// Close releases the underlying connection pool.
func (r *SQLRepository) Close(context.Context) error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPublication(row rowScanner) (domain.StoredDocument, error) {
	var (
		doc                             domain.StoredDocument
		kind, excerpt, summary, errText sql.NullString
		createdAt                       int64
	)
	err := row.Scan(&doc.ID, &doc.Title, &doc.URL, &doc.Fetched, &kind, &excerpt, &summary, &errText, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, err
	}
	if err != nil {
		return doc, fmt.Errorf("scan publication: %w", err)
	}

	doc.ContentKind = domain.ContentKind(kind.String)
	doc.Excerpt = excerpt.String
	doc.Summary = summary.String
	doc.Error = errText.String
	doc.CreatedAt = time.Unix(0, createdAt).UTC()
	return doc, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
