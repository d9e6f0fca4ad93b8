// ABOUTME: Test utilities for creating isolated charm clients
// ABOUTME: Backs the client with a BadgerDB in a per-test temporary directory

package charm

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// testClient stands in for charm kv with a local BadgerDB, so tests never
// need a charm server.
type testClient struct {
	db     *badger.DB
	config *Config
	mu     sync.RWMutex
}

func (c *testClient) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (c *testClient) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (c *testClient) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (c *testClient) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys [][]byte
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (c *testClient) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.DropAll()
}

// NewTestClient returns a client backed by a temporary BadgerDB that is
// closed when the test ends.
func NewTestClient(t *testing.T) *Client {
	t.Helper()

	opts := badger.DefaultOptions(filepath.Join(t.TempDir(), AppName)).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	cfg := &Config{Host: "localhost", AutoSync: false}
	return &Client{
		config:     cfg,
		testClient: &testClient{db: db, config: cfg},
	}
}
