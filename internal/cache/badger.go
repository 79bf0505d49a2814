// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package cache

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tenderlens/tenderlens/internal/logging"
	"github.com/tenderlens/tenderlens/internal/metrics"
)

// Badger is a persistent cache store backed by badger. Entries carry their
// TTL natively (badger expires them server-side), so the cache survives
// process restarts; durability is a convenience, not a correctness
// requirement, and a deleted data directory just means a cold cache.
type Badger struct {
	db         *badger.DB
	defaultTTL time.Duration
}

// NewBadger opens (or creates) a badger-backed cache at dir.
func NewBadger(dir string, defaultTTL time.Duration) (*Badger, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil). // badger's own logger is noisy; errors surface via return values
		WithCompactL0OnClose(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store at %s: %w", dir, err)
	}

	return &Badger{db: db, defaultTTL: defaultTTL}, nil
}

// Get retrieves a value by key. Expired entries are handled by badger
// itself and report as misses. A value that cannot be read back is treated
// as corruption: the entry is deleted and reported as a miss, never
// propagated.
func (b *Badger) Get(key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	switch {
	case err == nil:
		metrics.CacheHits.Inc()
		return value, true
	case errors.Is(err, badger.ErrKeyNotFound):
		metrics.CacheMisses.Inc()
		return nil, false
	default:
		logging.Warn().Err(err).Str("key", key).Msg("Dropping unreadable cache entry")
		b.Delete(key)
		metrics.CacheMisses.Inc()
		return nil, false
	}
}

// Set stores a value with the given TTL; ttl <= 0 uses the store default.
func (b *Badger) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = b.defaultTTL
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		// A failed write only costs a future recomputation.
		logging.Warn().Err(err).Str("key", key).Msg("Failed to persist cache entry")
	}
}

// Delete removes a cache entry by key.
func (b *Badger) Delete(key string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Failed to delete cache entry")
	}
}

// Clear drops all cache entries.
func (b *Badger) Clear() {
	if err := b.db.DropAll(); err != nil {
		logging.Warn().Err(err).Msg("Failed to clear cache store")
	}
}

// Close releases the underlying store.
func (b *Badger) Close() error {
	return b.db.Close()
}
