package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evisynth/nmakit/pkg/observability"
)

// MongoConfig configures a MongoDB-backed store.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "nmakit"
	Collection string // defaults to "assessments"
}

// MongoStore keeps assessment records in a MongoDB collection, useful
// when assessments should live alongside a review's other documents.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	CreatedAt time.Time `bson:"created_at"`
	Payload   string    `bson:"payload"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "nmakit"
	}
	if cfg.Collection == "" {
		cfg.Collection = "assessments"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	doc := mongoRecord{
		ID:        rec.ID,
		Kind:      rec.Kind,
		CreatedAt: rec.CreatedAt,
		Payload:   string(rec.Payload),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, opts); err != nil {
		return fmt.Errorf("mongodb upsert: %w", err)
	}
	observability.Store().OnStoreSet(ctx, "mongo", len(rec.Payload))
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		observability.Store().OnStoreMiss(ctx, "mongo")
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}

	observability.Store().OnStoreHit(ctx, "mongo")
	return &Record{
		ID:        doc.ID,
		Kind:      doc.Kind,
		CreatedAt: doc.CreatedAt,
		Payload:   []byte(doc.Payload),
	}, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongodb delete: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
