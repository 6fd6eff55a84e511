package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
)

var (
	publicationsBucket = []byte("publications")
	urlIndexBucket     = []byte("publications_by_url")
)

// BoltRepository keeps publications in an embedded bbolt file. Values are
// JSON documents keyed by ID; a second bucket indexes IDs by URL.
type BoltRepository struct {
	db *bolt.DB
}

var _ ports.DocumentStore = (*BoltRepository)(nil)

// OpenBoltRepository opens or creates the database file at path.
func OpenBoltRepository(path string) (*BoltRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{publicationsBucket, urlIndexBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

// ExistsByURL reports whether any publication was stored for url.
func (r *BoltRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found bool
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(urlIndexBucket).Cursor()
		prefix := urlKeyPrefix(url)
		k, _ := c.Seek(prefix)
		found = k != nil && bytes.HasPrefix(k, prefix)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("lookup url: %w", err)
	}
	return found, nil
}

// Append stores a new publication under a fresh UUID.
func (r *BoltRepository) Append(ctx context.Context, doc domain.StoredDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc.ID = uuid.NewString()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal publication: %w", err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(publicationsBucket).Put([]byte(doc.ID), payload); err != nil {
			return err
		}
		// url and id together form the key so repeated URLs keep every entry
		key := append(urlKeyPrefix(doc.URL), doc.ID...)
		return tx.Bucket(urlIndexBucket).Put(key, []byte(doc.ID))
	})
	if err != nil {
		return "", fmt.Errorf("store publication: %w", err)
	}
	return doc.ID, nil
}

// ListRecent returns up to limit publications, newest first.
func (r *BoltRepository) ListRecent(_ context.Context, limit int) ([]domain.StoredDocument, error) {
	if limit <= 0 {
		return nil, nil
	}

	var docs []domain.StoredDocument
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(publicationsBucket).ForEach(func(_, v []byte) error {
			var doc domain.StoredDocument
			if err := json.Unmarshal(v, &doc); err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan publications: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Get loads one publication by ID.
func (r *BoltRepository) Get(_ context.Context, id string) (domain.StoredDocument, error) {
	var doc domain.StoredDocument
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(publicationsBucket).Get([]byte(id))
		if v == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(v, &doc)
	})
	if err != nil {
		return domain.StoredDocument{}, fmt.Errorf("publication %s: %w", id, err)
	}
	return doc, nil
}

// Close releases the file lock.
func (r *BoltRepository) Close(context.Context) error {
	return r.db.Close()
}

func urlKeyPrefix(url string) []byte {
	key := make([]byte, 0, len(url)+1)
	key = append(key, url...)
	return append(key, 0)
}
