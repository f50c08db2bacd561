package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore implements Store with one document per key:
//
//	{ "_id": <key>, "value": <string>, "updated_at": <date> }
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "eventboard"
	}
	if cfg.Collection == "" {
		cfg.Collection = "kv"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a value document.
func (s *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		entry mongoEntry
		ok    bool
	)
	err := RetryWithBackoff(ctx, func() error {
		err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&entry)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			ok = false
			return nil
		case err != nil:
			return mongoRetryable(err)
		}
		ok = true
		return nil
	})
	if err != nil || !ok {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set upserts the value document.
func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "value", Value: value},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	return RetryWithBackoff(ctx, func() error {
		_, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: key}}, update, options.Update().SetUpsert(true))
		return mongoRetryable(err)
	})
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoRetryable(err error) error {
	if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
		return Retryable(err)
	}
	return classify(err)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
