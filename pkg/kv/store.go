// Package kv provides the key-value stores the event board persists to.
//
// # Overview
//
// The board keeps its whole event list as one JSON blob under a single key,
// so the storage contract is deliberately small:
//
//   - [Store.Get]: read a value, reporting whether the key exists
//   - [Store.Set]: overwrite a value (last write wins)
//
// There are no transactions. Two writers racing on the same key will lose
// one of the updates, exactly like the hosted store the board was designed
// against.
//
// # Backends
//
//   - [MemoryStore]: process-local map, for tests and throwaway runs
//   - [BoltStore]: single-file database (go.etcd.io/bbolt), the CLI default
//   - [RedisStore]: shared store for multi-instance deployments
//   - [MongoStore]: one document per key in a MongoDB collection
//
// Wrap any backend with [Instrument] to report reads and writes to the
// observability hooks.
package kv

import (
	"context"
	"fmt"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false if the key does
	// not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases the store's resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Options configures Open.
type Options struct {
	Backend string

	// Bolt
	Path string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Mongo
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open creates the store selected by opts.Backend, instrumented with the
// observability hooks.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendMemory, "":
		s = NewMemoryStore()
	case BackendBolt:
		s, err = NewBoltStore(opts.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{
			URI:        opts.MongoURI,
			Database:   opts.MongoDatabase,
			Collection: opts.MongoCollection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, opts.Backend), nil
}
