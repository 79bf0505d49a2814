// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"net/http"
	"time"

	"github.com/tenderlens/tenderlens/internal/logging"
	"github.com/tenderlens/tenderlens/internal/models"
)

// maxImportBytes caps the request body for CSV imports.
const maxImportBytes = 256 << 20 // 256 MiB

// HandleImportCSV ingests procurement records from a CSV request body and
// upserts them by project identifier. The analytics cache is cleared on
// success so subsequent queries see the new records.
// POST /api/v1/import/csv
func (h *Handler) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, "Analytics store not available", nil)
		return
	}

	start := time.Now()
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	defer body.Close()

	result, err := h.db.ImportCSV(r.Context(), body)
	if err != nil {
		respondFilterError(w, err)
		return
	}

	h.ClearCache()
	logging.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("CSV import completed")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Count:       result.Imported,
		},
	})
}
