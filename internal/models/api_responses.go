// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package models

import "time"

// APIResponse represents a standardized API response wrapper used by all
// HTTP endpoints. It provides consistent structure for both successful and
// error responses, with metadata for observability and partial-result
// signalling.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"projects": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-30T12:00:00Z",
//	    "query_time_ms": 45,
//	    "count": 50000,
//	    "total_count": 61234,
//	    "partial": true
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and result
// completeness.
//
// Partial-result signalling: when a bounded fetch truncates the result set,
// Count carries the number of rows returned, TotalCount the true match
// count, and Partial is true. Clients must distinguish "showing N of M"
// from "all results shown"; Partial false with equal counts means complete.
//
// Cache signalling: cached responses report Cached true and QueryTimeMS 0;
// fresh queries report actual execution time.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Count       int       `json:"count,omitempty"`
	TotalCount  int64     `json:"total_count,omitempty"`
	Partial     bool      `json:"partial,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: ProjectFilter invariant violated (range inversion)
//   - TRANSLATION_ERROR: a filter field could not map to a predicate
//   - BACKEND_UNAVAILABLE: retries exhausted against the analytics store
//   - NOT_FOUND: resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
