// Package scorecache persists computed compatibility scores with a
// fixed time-to-live.
//
// The cache is write-mostly: discovery always recomputes and writes
// through, so entries are advisory and recomputable. Writes are
// last-write-wins with no cross-entry transactions; concurrent writers
// to the same key simply race and the last write is authoritative.
package scorecache

import (
	"context"
	"time"

	"github.com/jamaine1984/indira/internal/domain/model"
)

// DefaultSweepBatch bounds the cost of a single sweep call. Callers
// re-invoke on the next cadence tick to drain a larger backlog.
const DefaultSweepBatch = 500

// Store provides access to cached score entries.
type Store interface {
	// Upsert writes an entry, overwriting any existing entry at the
	// same directional key. Idempotent.
	Upsert(ctx context.Context, e model.ScoreEntry) error

	// Get returns the entry at key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key model.PairKey) (model.ScoreEntry, error)

	// Sweep deletes entries whose expiry is at or before now, at most
	// maxBatch per call (DefaultSweepBatch if maxBatch < 1). Returns
	// the number deleted.
	Sweep(ctx context.Context, now time.Time, maxBatch int) (int, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying storage.
	Close() error
}
