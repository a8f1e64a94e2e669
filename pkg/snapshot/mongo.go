package snapshot

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default MongoDB locations.
const (
	DefaultMongoDatabase   = "cpakstore"
	DefaultMongoCollection = "snapshots"
)

const connectTimeout = 10 * time.Second

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoSink stores snapshots in a MongoDB collection, one document per
// snapshot keyed by its ID.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSink connects to MongoDB and verifies the connection.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &MongoSink{client: client, coll: coll}, nil
}

// Save upserts s.
func (m *MongoSink) Save(ctx context.Context, s *Snapshot) error {
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save %s: %w", s.ID, err)
	}
	return nil
}

// Get loads the snapshot with the given ID. The boolean is false when no
// such snapshot exists.
func (m *MongoSink) Get(ctx context.Context, id string) (*Snapshot, bool, error) {
	return m.findOne(ctx, bson.M{"_id": id}, nil)
}

// Latest loads the most recent snapshot.
func (m *MongoSink) Latest(ctx context.Context) (*Snapshot, bool, error) {
	return m.findOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (m *MongoSink) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*Snapshot, bool, error) {
	var s Snapshot
	var err error
	if opts != nil {
		err = m.coll.FindOne(ctx, filter, opts).Decode(&s)
	} else {
		err = m.coll.FindOne(ctx, filter).Decode(&s)
	}
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", err)
	}
	return &s, true, nil
}

// Close disconnects from MongoDB.
func (m *MongoSink) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
