package scorecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/jamaine1984/indira/internal/domain/model"
)

// keyPrefix namespaces score entries inside the key space.
const keyPrefix = "score/"

// Option applies a configuration option to the BadgerStore.
type Option func(*storeConfig)

type storeConfig struct {
	inMemory bool
}

// WithInMemory keeps the store entirely in memory. Used by tests.
func WithInMemory() Option {
	return func(c *storeConfig) {
		c.inMemory = true
	}
}

// BadgerStore implements Store on an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore opens (creating if needed) the cache at path.
func NewBadgerStore(path string, opts ...Option) (*BadgerStore, error) {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	bopts := badger.DefaultOptions(path).WithLogger(nil)
	if cfg.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open score cache: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close score cache: %w", err)
	}
	return nil
}

// Upsert writes an entry at its directional key, replacing any
// previous value.
func (s *BadgerStore) Upsert(ctx context.Context, e model.ScoreEntry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(e.Key()), data)
	})
	if err != nil {
		return fmt.Errorf("upsert score %s->%s: %w", e.SourceID, e.TargetID, err)
	}
	return nil
}

// Get returns the entry at key.
func (s *BadgerStore) Get(ctx context.Context, key model.PairKey) (model.ScoreEntry, error) {
	var e model.ScoreEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, ErrNotFound) {
		return model.ScoreEntry{}, ErrNotFound
	}
	if err != nil {
		return model.ScoreEntry{}, fmt.Errorf("get score %s->%s: %w", key.SourceID, key.TargetID, err)
	}
	return e, nil
}

// Sweep deletes up to maxBatch entries expired at now.
func (s *BadgerStore) Sweep(ctx context.Context, now time.Time, maxBatch int) (int, error) {
	if maxBatch < 1 {
		maxBatch = DefaultSweepBatch
	}

	// Collect expired keys first; deletes go through a write batch so
	// a large sweep cannot overflow a single transaction.
	var expired [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if len(expired) >= maxBatch {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var e model.ScoreEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				// Unreadable entries are treated as expired garbage.
				expired = append(expired, item.KeyCopy(nil))
				continue
			}
			if e.Expired(now) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan expired scores: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range expired {
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("delete expired score: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush sweep batch: %w", err)
	}
	return len(expired), nil
}

// Count returns the number of stored entries.
func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return count, nil
}

func encodeKey(k model.PairKey) []byte {
	return append([]byte(keyPrefix), k.Encode()...)
}

func validateEntry(e model.ScoreEntry) error {
	switch {
	case e.SourceID == "" || e.TargetID == "":
		return fmt.Errorf("%w: missing ids", ErrInvalidEntry)
	case e.Score < 0 || e.Score > 100:
		return fmt.Errorf("%w: score %v out of range", ErrInvalidEntry, e.Score)
	case !e.ExpiresAt.Equal(e.CalculatedAt.Add(model.ScoreTTL)):
		return fmt.Errorf("%w: expiry does not match ttl", ErrInvalidEntry)
	}
	return nil
}
