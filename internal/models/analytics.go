// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package models

import "time"

// PeriodBucket is one calendar bucket of the period analysis.
//
// ChangePct is the percent change of TotalValue versus the immediately
// preceding bucket. It is nil (undefined) for the first bucket and whenever
// the preceding bucket's value is zero; it is never substituted with zero
// or infinity.
type PeriodBucket struct {
	Period     string    `json:"period"`
	Start      time.Time `json:"start"`
	Count      int       `json:"count"`
	TotalValue float64   `json:"total_value"`
	ChangePct  *float64  `json:"change_pct,omitempty"`
}

// PeriodAnalysisResponse is the result of grouping projects by a calendar
// granularity (week, month, quarter, year).
type PeriodAnalysisResponse struct {
	Granularity string         `json:"granularity"`
	Buckets     []PeriodBucket `json:"buckets"`
	TotalCount  int            `json:"total_count"`
	TotalValue  float64        `json:"total_value"`
}

// MarketShare is one entity's slice of the market.
type MarketShare struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	SharePct float64 `json:"share_pct"`
}

// ConcentrationResponse carries market concentration results.
//
// HHI is the Herfindahl-Hirschman Index: the sum of squared percentage
// shares across all entities, on the 0-10,000 scale. Shares holds only the
// top N entities by value (ties broken by name ascending); the HHI is always
// computed over the full entity set.
type ConcentrationResponse struct {
	Shares      []MarketShare `json:"shares"`
	HHI         float64       `json:"hhi"`
	TotalValue  float64       `json:"total_value"`
	EntityCount int           `json:"entity_count"`
}

// CompetitionMatrix holds pairwise competition metrics for a set of
// companies. All matrices are square, indexed by position in Companies, and
// symmetric; they are materialized in full for direct display.
//
// SharedDepartments counts departments where both companies have at least
// one award. HeadToHead counts awards in sub-departments shared by the pair.
// PriceCutDiff is the difference between the two companies' value-weighted
// price cuts (row minus column); an entry is nil when either side's price
// cut is undefined.
type CompetitionMatrix struct {
	Companies         []string     `json:"companies"`
	SharedDepartments [][]int      `json:"shared_departments"`
	HeadToHead        [][]int      `json:"head_to_head"`
	PriceCutDiff      [][]*float64 `json:"price_cut_diff"`
}

// PriceCutSummary is the value-weighted price cut over a record set:
// (sum(SumPriceAgree)/sum(PriceBuild) - 1) * 100, computed over records with
// a usable budget. This is deliberately not the mean of per-record cuts; the
// two diverge under skewed project sizes.
//
// WeightedPct is nil when no record in the set has a positive budget.
type PriceCutSummary struct {
	WeightedPct      *float64 `json:"weighted_pct,omitempty"`
	TotalAgree       float64  `json:"total_agree"`
	TotalBuild       float64  `json:"total_build"`
	DefinedRecords   int      `json:"defined_records"`
	UndefinedRecords int      `json:"undefined_records"`
}

// SummaryStats is the headline aggregate for a filter selection.
type SummaryStats struct {
	ProjectCount  int             `json:"project_count"`
	CompanyCount  int             `json:"company_count"`
	DeptCount     int             `json:"dept_count"`
	TotalValue    float64         `json:"total_value"`
	AvgValue      float64         `json:"avg_value"`
	PriceCut      PriceCutSummary `json:"price_cut"`
	FirstAward    *time.Time      `json:"first_award,omitempty"`
	LastAward     *time.Time      `json:"last_award,omitempty"`
}
