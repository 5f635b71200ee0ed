// Package mongostore persists imported documents in MongoDB, one collection
// per document kind.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/logging"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store"
)

// DefaultTimeout bounds every round trip to the server.
const DefaultTimeout = 10 * time.Second

// Client is a connected MongoDB database.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	timeout  time.Duration
}

// Connect dials uri, pings it and selects database.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logging.StoreOpened("mongo", database)
	return &Client{client: client, database: client.Database(database), timeout: timeout}, nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// CollectionName returns the collection holding documents of kind.
func CollectionName(kind string) string {
	return kind + "s"
}

// collection is the subset of *mongo.Collection the store uses.
type collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// record is the stored shape of a document.
type record[T any] struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Fingerprint string    `bson:"fingerprint"`
	UpdatedAt   time.Time `bson:"updated_at"`
	Doc         T         `bson:"doc"`
}

// Store is a formats.PersistAdapter over one collection.
type Store[T any] struct {
	coll    collection
	kind    string
	key     func(T) (id, name string)
	timeout time.Duration
}

// New returns a store for documents of kind. key extracts the id and the
// display name of a document.
func New[T any](c *Client, kind string, key func(T) (id, name string)) *Store[T] {
	return &Store[T]{
		coll:    c.database.Collection(CollectionName(kind)),
		kind:    kind,
		key:     key,
		timeout: c.timeout,
	}
}

func (s *Store[T]) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Exists reports whether id is stored.
func (s *Store[T]) Exists(id string) (bool, error) {
	ctx, cancel := s.opContext()
	defer cancel()
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("lookup %s %s: %w", s.kind, id, err)
	}
	return n > 0, nil
}

// Upsert replaces or inserts doc. A document whose fingerprint is unchanged
// is not rewritten.
func (s *Store[T]) Upsert(doc T) (bool, error) {
	id, name := s.key(doc)
	fp, err := store.FingerprintOf(doc)
	if err != nil {
		return false, fmt.Errorf("fingerprint %s %s: %w", s.kind, id, err)
	}

	ctx, cancel := s.opContext()
	defer cancel()

	var current struct {
		Fingerprint string `bson:"fingerprint"`
	}
	err = s.coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"fingerprint": 1})).Decode(&current)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return false, fmt.Errorf("lookup %s %s: %w", s.kind, id, err)
	case current.Fingerprint == fp:
		return true, nil
	}

	rec := record[T]{ID: id, Name: name, Fingerprint: fp, UpdatedAt: time.Now().UTC(), Doc: doc}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("write %s %s: %w", s.kind, id, err)
	}
	return res.MatchedCount > 0, nil
}

// Load reads the document stored under id.
func (s *Store[T]) Load(id string) (T, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	var rec record[T]
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero T
		return zero, apperrors.NewNotFound(s.kind, id)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %s %s: %w", s.kind, id, err)
	}
	return rec.Doc, nil
}
