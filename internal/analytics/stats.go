// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package analytics

import (
	"time"

	"github.com/tenderlens/tenderlens/internal/models"
)

// Summary computes the headline statistics for a record set: counts,
// totals, value-weighted price cut, and the award date span. Empty input
// yields a zero summary.
func Summary(projects []models.Project) models.SummaryStats {
	stats := models.SummaryStats{
		ProjectCount: len(projects),
		PriceCut:     PriceCut(projects),
	}
	if len(projects) == 0 {
		return stats
	}

	companies := make(map[string]struct{})
	depts := make(map[string]struct{})
	var first, last time.Time

	for i := range projects {
		p := &projects[i]
		stats.TotalValue += p.SumPriceAgree
		if p.Winner != "" {
			companies[p.Winner] = struct{}{}
		}
		if p.DeptName != "" {
			depts[p.DeptName] = struct{}{}
		}
		if !p.TransactionDate.IsZero() {
			if first.IsZero() || p.TransactionDate.Before(first) {
				first = p.TransactionDate
			}
			if last.IsZero() || p.TransactionDate.After(last) {
				last = p.TransactionDate
			}
		}
	}

	stats.CompanyCount = len(companies)
	stats.DeptCount = len(depts)
	stats.AvgValue = stats.TotalValue / float64(len(projects))
	if !first.IsZero() {
		stats.FirstAward = &first
	}
	if !last.IsZero() {
		stats.LastAward = &last
	}

	return stats
}
