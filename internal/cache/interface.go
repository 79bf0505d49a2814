// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Package cache provides the result cache: TTL-bounded memoization of
// serialized query results keyed by a deterministic hash of the filter that
// produced them.
//
// Two stores implement the same interface: an in-memory map cache and a
// badger-backed persistent cache that survives restarts. Entries are derived
// and re-derivable, so last-writer-wins races are acceptable and a cold
// cache is just an all-misses state.
package cache

import "time"

// Store is the key-value contract shared by cache backends. Values are
// opaque serialized bytes; callers own encoding and decoding.
//
// Get must never return a logically-expired value: an expired entry is
// deleted on access and reported as a miss. Set overwrites unconditionally.
// Delete is a no-op for absent keys.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
	Close() error
}
