package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// rootBucket holds every key of a BoltStore.
const rootBucket = "eventboard"

// DefaultBoltFile is the database file name inside the data directory.
const DefaultBoltFile = "eventboard.bdb"

// BoltStore implements Store on a bbolt database file.
type BoltStore struct {
	db   *bolt.DB
	root []byte
}

// NewBoltStore opens (or creates) the database at path.
// The parent directory will be created if it doesn't exist.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("bolt store: create dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open db %s: %w", path, err)
	}
	s := &BoltStore{db: db, root: []byte(rootBucket)}
	err = db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(s.root)
		if err != nil {
			return fmt.Errorf("unable to create root bucket %s: %w", s.root, err)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable root bucket %s", s.root)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Get retrieves a value from the store.
func (s *BoltStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.root)
		if b == nil {
			return fmt.Errorf("invalid bucket %s", s.root)
		}
		// raw is only valid inside the transaction; string() copies it.
		if raw := b.Get([]byte(key)); raw != nil {
			value, ok = string(raw), true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

// Set stores a value.
func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.root)
		if b == nil {
			return fmt.Errorf("invalid bucket %s", s.root)
		}
		if err := b.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("could not store %s: %w", key, err)
		}
		return nil
	})
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Ensure BoltStore implements Store.
var _ Store = (*BoltStore)(nil)
