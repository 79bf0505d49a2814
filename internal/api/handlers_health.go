// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"net/http"
	"time"

	"github.com/tenderlens/tenderlens/internal/models"
)

// HandleHealthLive reports process liveness. Always 200 while the process
// can serve requests at all.
// GET /api/v1/health/live
func (h *Handler) HandleHealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"status": "alive"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HandleHealthReady reports readiness: 200 once the analytics store
// answers a ping, 503 otherwise.
// GET /api/v1/health/ready
func (h *Handler) HandleHealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, "Analytics store not available", nil)
		return
	}
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, "Analytics store not responding", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":         "ready",
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
