// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Package metrics provides Prometheus instrumentation for Tenderlens:
// database query performance, API latency, result cache efficiency, and
// bounded-fetch truncation counts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenderlens_db_query_duration_seconds",
			Help:    "Duration of analytics store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderlens_db_query_errors_total",
			Help: "Total number of analytics store query errors",
		},
		[]string{"operation"},
	)

	// Bounded fetch metrics
	FetchTruncations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenderlens_fetch_truncations_total",
			Help: "Fetches whose true match count exceeded the record cap",
		},
	)

	FetchRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenderlens_fetch_retries_total",
			Help: "Whole-fetch retry attempts after transient backend failure",
		},
	)

	// Result cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenderlens_result_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenderlens_result_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tenderlens_result_cache_entries",
			Help: "Current number of entries in the result cache",
		},
	)

	// API metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenderlens_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// ObserveQuery records a database query duration for the given operation.
func ObserveQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordQueryError increments the error counter for the given operation.
func RecordQueryError(operation string) {
	DBQueryErrors.WithLabelValues(operation).Inc()
}
