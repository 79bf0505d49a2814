// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tenderlens/tenderlens/internal/database"
	"github.com/tenderlens/tenderlens/internal/frame"
	"github.com/tenderlens/tenderlens/internal/logging"
	"github.com/tenderlens/tenderlens/internal/models"
)

// ProjectListData is the payload of the project listing endpoint.
type ProjectListData struct {
	Projects []models.Project `json:"projects"`
}

// HandleProjects returns the bounded record set matching the filter.
// GET /api/v1/projects
//
// A result trimmed at the record cap reports partial=true with the true
// match count in metadata; an empty result is a normal success with zero
// rows, never an error.
func (h *Handler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	executor := NewAnalyticsQueryExecutor(h)
	executor.Execute(w, r, "Projects", h.queryProjects)
}

func (h *Handler) queryProjects(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error) {
	result, err := h.db.FetchProjects(ctx, filter, h.fetchOptions())
	if err != nil {
		return nil, nil, err
	}
	return &ProjectListData{Projects: result.Projects}, statsFromResult(result), nil
}

// HandleProjectsExport streams the filtered record set as CSV.
// GET /api/v1/projects/export
//
// Export bypasses the result cache: the payload is large and reproducing
// it is no more expensive than serializing a cached copy.
func (h *Handler) HandleProjectsExport(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, "Analytics store not available", nil)
		return
	}

	filter, err := h.buildFilter(r)
	if err != nil {
		respondFilterError(w, err)
		return
	}

	result, err := h.db.FetchProjects(r.Context(), filter, h.fetchOptions())
	if err != nil {
		respondFilterError(w, err)
		return
	}

	filename := "tenderlens-projects-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if result.Truncated {
		w.Header().Set("X-Partial-Result", "true")
	}

	f := frame.FromProjects(result.Projects)
	if err := f.WriteCSV(w); err != nil {
		logging.Error().Err(err).Msg("Failed to stream CSV export")
	}
}

// HandleFilterOptions returns the selectable values for every filter
// dimension in one response.
// GET /api/v1/filters/options
func (h *Handler) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, "Analytics store not available", nil)
		return
	}

	start := time.Now()
	ctx := r.Context()

	departments, err := h.db.ListDepartments(ctx)
	if err != nil {
		respondFilterError(w, err)
		return
	}
	subDepartments, err := h.db.ListSubDepartments(ctx, r.URL.Query().Get("department"))
	if err != nil {
		respondFilterError(w, err)
		return
	}
	methods, err := h.db.ListPurchaseMethods(ctx)
	if err != nil {
		respondFilterError(w, err)
		return
	}
	types, err := h.db.ListProjectTypes(ctx)
	if err != nil {
		respondFilterError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"departments":      departments,
			"sub_departments":  subDepartments,
			"purchase_methods": methods,
			"project_types":    types,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// HandleCompanies lists winners, optionally thresholded by award count.
// GET /api/v1/filters/companies?min_projects=N
func (h *Handler) HandleCompanies(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, "Analytics store not available", nil)
		return
	}

	start := time.Now()
	minProjects := getIntParam(r, "min_projects", 1)

	companies, err := h.db.ListCompanies(r.Context(), minProjects)
	if err != nil {
		respondFilterError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"companies": companies},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Count:       len(companies),
		},
	})
}
