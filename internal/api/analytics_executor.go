// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tenderlens/tenderlens/internal/cache"
	"github.com/tenderlens/tenderlens/internal/database"
	"github.com/tenderlens/tenderlens/internal/logging"
	"github.com/tenderlens/tenderlens/internal/models"
)

// AnalyticsQueryExecutor encapsulates the cache-first flow shared by the
// analytics handlers:
//
//  1. Build a ProjectFilter from query parameters
//  2. Check the result cache under the filter's canonical key
//  3. Execute the query on a miss
//  4. Cache the serialized result
//  5. Respond with metadata (query time, cached status, completeness)
//
// Cached entries are stored as serialized JSON envelopes so the same flow
// works for the in-memory and persistent cache tiers, and so completeness
// metadata survives a cache round trip. An entry that no longer parses is
// dropped and treated as a miss.
type AnalyticsQueryExecutor struct {
	handler *Handler
}

// NewAnalyticsQueryExecutor creates an executor bound to the handler's
// database, cache, and configuration.
func NewAnalyticsQueryExecutor(h *Handler) *AnalyticsQueryExecutor {
	return &AnalyticsQueryExecutor{handler: h}
}

// FetchStats reports how complete the record set behind a result is.
type FetchStats struct {
	Count      int   `json:"count"`
	TotalCount int64 `json:"total_count"`
	Partial    bool  `json:"partial"`
}

// statsFromResult derives completeness metadata from a bounded fetch.
func statsFromResult(result *database.FetchResult) *FetchStats {
	return &FetchStats{
		Count:      len(result.Projects),
		TotalCount: int64(result.TotalCount),
		Partial:    result.Truncated,
	}
}

// AnalyticsQueryFunc executes one analytics query for a filter. The result
// must be JSON-serializable; it is cached and wrapped in an APIResponse.
// Stats may be nil when completeness metadata does not apply.
type AnalyticsQueryFunc func(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error)

// cachedEnvelope is the serialized form of one cached result.
type cachedEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Stats *FetchStats     `json:"stats,omitempty"`
}

// Execute runs a filter-only analytics query with automatic caching.
func (e *AnalyticsQueryExecutor) Execute(w http.ResponseWriter, r *http.Request, cacheKeyPrefix string, queryFunc AnalyticsQueryFunc) {
	e.ExecuteWithParams(w, r, cacheKeyPrefix, nil, queryFunc)
}

// ExecuteWithParams runs an analytics query whose result depends on the
// filter plus extra parameters (granularity, top-N). The extra parameters
// join the cache key so distinct values cache separately.
func (e *AnalyticsQueryExecutor) ExecuteWithParams(
	w http.ResponseWriter,
	r *http.Request,
	cacheKeyPrefix string,
	extraParams map[string]interface{},
	queryFunc AnalyticsQueryFunc,
) {
	if e.handler.db == nil {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, "Analytics store not available", nil)
		return
	}

	start := time.Now()
	filter, err := e.handler.buildFilter(r)
	if err != nil {
		respondFilterError(w, err)
		return
	}

	keyParams := filter.KeyParams()
	for k, v := range extraParams {
		keyParams[k] = v
	}
	cacheKey := cache.GenerateKey(cacheKeyPrefix, keyParams)

	if envelope, ok := e.cachedResult(cacheKey); ok {
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status:   "success",
			Data:     envelope.Data,
			Metadata: responseMetadata(envelope.Stats, 0, true),
		})
		return
	}

	data, stats, err := queryFunc(r.Context(), filter)
	if err != nil {
		respondFilterError(w, err)
		return
	}

	e.cacheResult(cacheKey, data, stats)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: responseMetadata(stats, time.Since(start).Milliseconds(), false),
	})
}

// responseMetadata assembles response metadata from optional fetch stats.
func responseMetadata(stats *FetchStats, queryTimeMS int64, cached bool) models.Metadata {
	md := models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: queryTimeMS,
		Cached:      cached,
	}
	if stats != nil {
		md.Count = stats.Count
		md.TotalCount = stats.TotalCount
		md.Partial = stats.Partial
	}
	return md
}

// cachedResult looks up a serialized envelope. An unparseable entry is
// deleted and reported as a miss so one bad record cannot wedge the key
// until expiry.
func (e *AnalyticsQueryExecutor) cachedResult(key string) (*cachedEnvelope, bool) {
	if e.handler.cache == nil {
		return nil, false
	}
	raw, found := e.handler.cache.Get(key)
	if !found {
		return nil, false
	}
	var envelope cachedEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || !json.Valid(envelope.Data) {
		logging.Warn().Str("key", key).Msg("Dropping corrupt cache entry")
		e.handler.cache.Delete(key)
		return nil, false
	}
	return &envelope, true
}

// cacheResult serializes and stores a query result under the key. Failures
// are logged and skipped; caching is an optimization, never a correctness
// dependency.
func (e *AnalyticsQueryExecutor) cacheResult(key string, data interface{}, stats *FetchStats) {
	if e.handler.cache == nil {
		return
	}
	rawData, err := json.Marshal(data)
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Failed to serialize result for caching")
		return
	}
	raw, err := json.Marshal(cachedEnvelope{Data: rawData, Stats: stats})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Failed to serialize cache envelope")
		return
	}
	e.handler.cache.Set(key, raw, 0)
}
