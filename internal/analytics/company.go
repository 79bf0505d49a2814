// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package analytics

import (
	"sort"

	"github.com/tenderlens/tenderlens/internal/models"
)

// CompanyAggregates derives per-company rollups from project records:
// project count, total and average awarded value, count of distinct buying
// departments, and value-weighted average price cut.
//
// Results are sorted by total value descending, then company name ascending.
// Records without a winner are skipped.
func CompanyAggregates(projects []models.Project) []models.CompanyAggregate {
	type companyAgg struct {
		count    int
		total    float64
		depts    map[string]struct{}
		agreeSum float64
		buildSum float64
	}

	byCompany := make(map[string]*companyAgg)
	for i := range projects {
		p := &projects[i]
		if p.Winner == "" {
			continue
		}
		agg, ok := byCompany[p.Winner]
		if !ok {
			agg = &companyAgg{depts: make(map[string]struct{})}
			byCompany[p.Winner] = agg
		}
		agg.count++
		agg.total += p.SumPriceAgree
		if p.DeptName != "" {
			agg.depts[p.DeptName] = struct{}{}
		}
		if p.PriceBuild > 0 {
			agg.agreeSum += p.SumPriceAgree
			agg.buildSum += p.PriceBuild
		}
	}

	result := make([]models.CompanyAggregate, 0, len(byCompany))
	for winner, agg := range byCompany {
		ca := models.CompanyAggregate{
			Winner:            winner,
			ProjectCount:      agg.count,
			TotalValue:        agg.total,
			AvgValue:          agg.total / float64(agg.count),
			UniqueDepartments: len(agg.depts),
		}
		if agg.buildSum > 0 {
			pct := (agg.agreeSum/agg.buildSum - 1) * 100
			ca.AvgPriceCut = &pct
		}
		result = append(result, ca)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalValue != result[j].TotalValue {
			return result[i].TotalValue > result[j].TotalValue
		}
		return result[i].Winner < result[j].Winner
	})

	return result
}

// FilterByMinProjects keeps only companies with at least minProjects awards.
// This is the parameterized replacement for ad hoc slicing of the company
// list: callers select "companies of at least this size" instead of an
// arbitrary index range.
func FilterByMinProjects(aggregates []models.CompanyAggregate, minProjects int) []models.CompanyAggregate {
	if minProjects <= 1 {
		return aggregates
	}
	filtered := make([]models.CompanyAggregate, 0, len(aggregates))
	for _, a := range aggregates {
		if a.ProjectCount >= minProjects {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
