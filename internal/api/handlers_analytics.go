// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"context"
	"net/http"

	"github.com/tenderlens/tenderlens/internal/analytics"
	"github.com/tenderlens/tenderlens/internal/database"
)

// Analytics endpoints fetch the bounded record set for the filter and run
// the aggregations in process. A truncated fetch marks the response partial
// so clients know the aggregates cover a bounded sample, not the full
// match set.
//
// Query parameters are bound into the request structs below and checked
// through validateRequest before any work is dispatched.

type periodsRequest struct {
	Granularity string `validate:"required,granularity"`
}

type concentrationRequest struct {
	By   string `validate:"required,oneof=winner department"`
	TopN int    `validate:"min=1,max=100"`
}

type companiesRequest struct {
	MinProjects int `validate:"min=1"`
}

type competitionRequest struct {
	Companies []string `validate:"min=2,max=20,dive,required"`
}

// HandleAnalyticsSummary returns headline statistics for the filter.
// GET /api/v1/analytics/summary
func (h *Handler) HandleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	executor := NewAnalyticsQueryExecutor(h)
	executor.Execute(w, r, "AnalyticsSummary",
		func(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error) {
			result, err := h.db.FetchProjects(ctx, filter, h.fetchOptions())
			if err != nil {
				return nil, nil, err
			}
			return analytics.Summary(result.Projects), statsFromResult(result), nil
		})
}

// HandleAnalyticsPeriods returns award counts and values bucketed by
// calendar period with period-over-period change.
// GET /api/v1/analytics/periods?granularity=month
func (h *Handler) HandleAnalyticsPeriods(w http.ResponseWriter, r *http.Request) {
	req := periodsRequest{Granularity: r.URL.Query().Get("granularity")}
	if req.Granularity == "" {
		req.Granularity = string(analytics.GranularityMonth)
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	granularity, _ := analytics.ParseGranularity(req.Granularity)

	executor := NewAnalyticsQueryExecutor(h)
	executor.ExecuteWithParams(w, r, "AnalyticsPeriods",
		map[string]interface{}{"granularity": string(granularity)},
		func(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error) {
			result, err := h.db.FetchProjects(ctx, filter, h.fetchOptions())
			if err != nil {
				return nil, nil, err
			}
			return analytics.PeriodAnalysis(result.Projects, granularity), statsFromResult(result), nil
		})
}

// HandleAnalyticsConcentration returns market shares and the HHI for the
// filter, grouped by winner or by procuring department.
// GET /api/v1/analytics/concentration?by=winner&top_n=10
func (h *Handler) HandleAnalyticsConcentration(w http.ResponseWriter, r *http.Request) {
	req := concentrationRequest{
		By:   r.URL.Query().Get("by"),
		TopN: getIntParam(r, "top_n", 10),
	}
	if req.By == "" {
		req.By = "winner"
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	groupBy, topN := req.By, req.TopN

	executor := NewAnalyticsQueryExecutor(h)
	executor.ExecuteWithParams(w, r, "AnalyticsConcentration",
		map[string]interface{}{"by": groupBy, "top_n": topN},
		func(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error) {
			result, err := h.db.FetchProjects(ctx, filter, h.fetchOptions())
			if err != nil {
				return nil, nil, err
			}
			stats := statsFromResult(result)
			if groupBy == "department" {
				return analytics.DepartmentConcentration(result.Projects, topN), stats, nil
			}
			return analytics.WinnerConcentration(result.Projects, topN), stats, nil
		})
}

// HandleAnalyticsPriceCut returns the value-weighted difference between
// agreed prices and budgets for the filter.
// GET /api/v1/analytics/price-cut
func (h *Handler) HandleAnalyticsPriceCut(w http.ResponseWriter, r *http.Request) {
	executor := NewAnalyticsQueryExecutor(h)
	executor.Execute(w, r, "AnalyticsPriceCut",
		func(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error) {
			result, err := h.db.FetchProjects(ctx, filter, h.fetchOptions())
			if err != nil {
				return nil, nil, err
			}
			return analytics.PriceCut(result.Projects), statsFromResult(result), nil
		})
}

// HandleAnalyticsCompanies returns per-winner aggregates, optionally
// thresholded by award count.
// GET /api/v1/analytics/companies?min_projects=2
func (h *Handler) HandleAnalyticsCompanies(w http.ResponseWriter, r *http.Request) {
	req := companiesRequest{MinProjects: getIntParam(r, "min_projects", 1)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	minProjects := req.MinProjects

	executor := NewAnalyticsQueryExecutor(h)
	executor.ExecuteWithParams(w, r, "AnalyticsCompanies",
		map[string]interface{}{"min_projects": minProjects},
		func(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error) {
			result, err := h.db.FetchProjects(ctx, filter, h.fetchOptions())
			if err != nil {
				return nil, nil, err
			}
			aggregates := analytics.FilterByMinProjects(analytics.CompanyAggregates(result.Projects), minProjects)
			return aggregates, statsFromResult(result), nil
		})
}

// HandleAnalyticsCompetition returns the pairwise competition matrices for
// a set of companies: shared procurement territory, head-to-head award
// counts, and pricing differentials.
// GET /api/v1/analytics/competition?companies=A,B,C
func (h *Handler) HandleAnalyticsCompetition(w http.ResponseWriter, r *http.Request) {
	req := competitionRequest{Companies: parseCommaSeparated(r.URL.Query().Get("companies"))}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	companies := req.Companies

	executor := NewAnalyticsQueryExecutor(h)
	executor.ExecuteWithParams(w, r, "AnalyticsCompetition",
		map[string]interface{}{"matrix_companies": companies},
		func(ctx context.Context, filter *database.ProjectFilter) (interface{}, *FetchStats, error) {
			// The matrix needs every record the named companies ever won,
			// regardless of the winner restriction in the filter.
			scoped := *filter
			scoped.Companies = companies
			result, err := h.db.FetchProjects(ctx, &scoped, h.fetchOptions())
			if err != nil {
				return nil, nil, err
			}
			return analytics.Competition(result.Projects, companies), statsFromResult(result), nil
		})
}
