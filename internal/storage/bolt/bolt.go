// Package bolt persists the postal-code cache in a bbolt file so lookups
// survive restarts.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tinoosan/fluxo/internal/cep"
	"github.com/tinoosan/fluxo/internal/ledger"
)

// BucketCEP holds one JSON address per postal code.
const BucketCEP = "cep"

var _ cep.Cache = (*Store)(nil)

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// Open creates the file if needed and initializes the bucket.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketCEP)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketCEP, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements cep.Cache.
func (s *Store) Get(_ context.Context, code string) (ledger.Address, error) {
	var a ledger.Address
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketCEP)).Get([]byte(code))
		if data == nil {
			return cep.ErrCacheMiss
		}
		return json.Unmarshal(data, &a)
	})
	return a, err
}

// Put implements cep.Cache.
func (s *Store) Put(_ context.Context, code string, a ledger.Address) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal address: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketCEP)).Put([]byte(code), data)
	})
}

// Count returns the number of cached codes.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(BucketCEP)).Stats().KeyN
		return nil
	})
	return n, err
}
