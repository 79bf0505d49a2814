// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Package api implements the HTTP surface of Tenderlens: filtered project
// retrieval, market analytics, CSV import/export, and filter options,
// served under /api/v1 with cache-first execution for analytics queries.
package api

import (
	"time"

	"github.com/tenderlens/tenderlens/internal/cache"
	"github.com/tenderlens/tenderlens/internal/config"
	"github.com/tenderlens/tenderlens/internal/database"
	"github.com/tenderlens/tenderlens/internal/logging"
)

// Handler carries the dependencies shared by all API handlers.
//
// Handler methods are split across files:
//   - handlers.go: struct, constructor, cache management (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_projects.go: project listing, export, filter options
//   - handlers_analytics.go: market analytics endpoints
//   - handlers_import.go: CSV ingestion
type Handler struct {
	db        *database.DB
	cache     cache.Store
	config    *config.Config
	startTime time.Time
}

// NewHandler creates an API handler. The cache may be nil, in which case
// every analytics query runs against the store directly.
func NewHandler(db *database.DB, store cache.Store, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		cache:     store,
		config:    cfg,
		startTime: time.Now(),
	}
}

// ClearCache invalidates all cached analytics results. Called after every
// successful import so clients never read pre-import aggregates.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.Clear()
		logging.Info().Msg("Analytics cache cleared")
	}
}

// fetchOptions derives the bounded-fetch tuning from configuration.
func (h *Handler) fetchOptions() *database.FetchOptions {
	if h.config == nil {
		return nil
	}
	return &database.FetchOptions{
		MaxRecords: h.config.Fetch.MaxRecords,
		ChunkSize:  h.config.Fetch.ChunkSize,
	}
}
