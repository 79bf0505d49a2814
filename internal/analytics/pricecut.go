// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package analytics

import "github.com/tenderlens/tenderlens/internal/models"

// PriceCut aggregates the value-weighted price cut over a record set:
// (sum(SumPriceAgree) / sum(PriceBuild) - 1) * 100.
//
// Only records with a positive budget participate; records with a zero or
// negative PriceBuild are counted as undefined and excluded from both sums.
// The weighted form is deliberate: a simple mean of per-record percentages
// gives materially different results under skewed project sizes.
//
// WeightedPct is nil when no record has a usable budget, including the
// empty-input case.
func PriceCut(projects []models.Project) models.PriceCutSummary {
	var summary models.PriceCutSummary

	for i := range projects {
		p := &projects[i]
		if p.PriceBuild <= 0 {
			summary.UndefinedRecords++
			continue
		}
		summary.DefinedRecords++
		summary.TotalAgree += p.SumPriceAgree
		summary.TotalBuild += p.PriceBuild
	}

	if summary.TotalBuild > 0 {
		pct := (summary.TotalAgree/summary.TotalBuild - 1) * 100
		summary.WeightedPct = &pct
	}

	return summary
}
