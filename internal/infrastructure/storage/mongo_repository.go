package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
)

const publicationsCollection = "publications"

// MongoRepository stores publications in a MongoDB collection.
type MongoRepository struct {
	client       *mongo.Client
	publications *mongo.Collection
}

var _ ports.DocumentStore = (*MongoRepository)(nil)

type mongoPublication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	URL         string             `bson:"url"`
	Fetched     bool               `bson:"fetched"`
	ContentKind string             `bson:"content_kind,omitempty"`
	Excerpt     string             `bson:"excerpt,omitempty"`
	Summary     string             `bson:"summary,omitempty"`
	Error       string             `bson:"error,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// OpenMongoRepository connects, pings and ensures the url index.
func OpenMongoRepository(ctx context.Context, uri, database string) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	repo := &MongoRepository{
		client:       client,
		publications: client.Database(database).Collection(publicationsCollection),
	}

	_, err = repo.publications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return repo, nil
}

// ExistsByURL reports whether any publication was stored for url.
func (r *MongoRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	n, err := r.publications.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by url: %w", err)
	}
	return n > 0, nil
}

// Append inserts a new publication; the ObjectID hex is its ID.
func (r *MongoRepository) Append(ctx context.Context, doc domain.StoredDocument) (string, error) {
	record := toMongo(doc)
	record.ID = primitive.NewObjectID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := r.publications.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("insert publication: %w", err)
	}
	return record.ID.Hex(), nil
}

// ListRecent returns up to limit publications, newest first.
func (r *MongoRepository) ListRecent(ctx context.Context, limit int) ([]domain.StoredDocument, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.publications.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []domain.StoredDocument
	for cursor.Next(ctx) {
		var record mongoPublication
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode publication: %w", err)
		}
		docs = append(docs, fromMongo(record))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	return docs, nil
}

// Get loads one publication by its ObjectID hex.
func (r *MongoRepository) Get(ctx context.Context, id string) (domain.StoredDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.StoredDocument{}, fmt.Errorf("publication %s: %w", id, domain.ErrNotFound)
	}

	var record mongoPublication
	err = r.publications.FindOne(ctx, bson.M{"_id": oid}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.StoredDocument{}, fmt.Errorf("publication %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.StoredDocument{}, fmt.Errorf("find publication: %w", err)
	}
	return fromMongo(record), nil
}

// Close disconnects the client.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toMongo(doc domain.StoredDocument) mongoPublication {
	return mongoPublication{
		Title:       doc.Title,
		URL:         doc.URL,
		Fetched:     doc.Fetched,
		ContentKind: string(doc.ContentKind),
		Excerpt:     doc.Excerpt,
		Summary:     doc.Summary,
		Error:       doc.Error,
		CreatedAt:   doc.CreatedAt,
	}
}

func fromMongo(record mongoPublication) domain.StoredDocument {
	return domain.StoredDocument{
		ID:          record.ID.Hex(),
		Title:       record.Title,
		URL:         record.URL,
		Fetched:     record.Fetched,
		ContentKind: domain.ContentKind(record.ContentKind),
		Excerpt:     record.Excerpt,
		Summary:     record.Summary,
		Error:       record.Error,
		CreatedAt:   record.CreatedAt.UTC(),
	}
}
