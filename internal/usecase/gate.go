package usecase

import (
	"context"
	"errors"
	"time"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
	"PublicationsImporter/pkg/textutil"
)

// Gate guards the document store: a URL is processed only when no document
// exists for it yet. There is no locking, so two concurrent runs may both
// persist the same URL.
type Gate struct {
	store ports.DocumentStore
	now   func() time.Time
}

// NewGate wraps a store. A nil clock means time.Now.
func NewGate(store ports.DocumentStore, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, now: now}
}

// Exists reports whether a document for url was persisted earlier.
func (g *Gate) Exists(ctx context.Context, url string) (bool, error) {
	if g == nil || g.store == nil {
		return false, errors.New("gate has no store")
	}
	return g.store.ExistsByURL(ctx, url)
}

// Persist appends doc, stamping the creation time and capping the excerpt.
func (g *Gate) Persist(ctx context.Context, doc domain.StoredDocument) (string, error) {
	if g == nil || g.store == nil {
		return "", errors.New("gate has no store")
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = g.now().UTC()
	}
	doc.Excerpt = textutil.Head(doc.Excerpt, domain.MaxStoredExcerpt)
	return g.store.Append(ctx, doc)
}
