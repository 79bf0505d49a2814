// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package analytics

import "github.com/tenderlens/tenderlens/internal/models"

// Competition computes pairwise competition metrics for the given companies
// over a set of project records.
//
// For each unordered pair the metrics are symmetric; the response holds
// full square matrices indexed by position in the companies slice because
// the display layer renders them directly.
//
//   - SharedDepartments[i][j]: departments where both companies hold at
//     least one award. The diagonal carries each company's own department
//     count.
//   - HeadToHead[i][j]: awards won by either company inside sub-departments
//     where both are active, the finer-grained arena where they actually
//     meet. The diagonal is zero.
//   - PriceCutDiff[i][j]: company i's value-weighted price cut minus
//     company j's. Nil when either side's price cut is undefined.
//
// Companies absent from the record set simply produce zero rows; empty
// input yields zero matrices of the requested dimension.
func Competition(projects []models.Project, companies []string) models.CompetitionMatrix {
	n := len(companies)

	depts := make([]map[string]struct{}, n)
	subDepts := make([]map[string]struct{}, n)
	subDeptAwards := make([]map[string]int, n)
	priceCuts := make([]*float64, n)

	index := make(map[string]int, n)
	for i, c := range companies {
		index[c] = i
		depts[i] = make(map[string]struct{})
		subDepts[i] = make(map[string]struct{})
		subDeptAwards[i] = make(map[string]int)
	}

	byCompany := make([][]models.Project, n)
	for i := range projects {
		p := &projects[i]
		ci, ok := index[p.Winner]
		if !ok {
			continue
		}
		if p.DeptName != "" {
			depts[ci][p.DeptName] = struct{}{}
		}
		if p.DeptSubName != "" {
			subDepts[ci][p.DeptSubName] = struct{}{}
			subDeptAwards[ci][p.DeptSubName]++
		}
		byCompany[ci] = append(byCompany[ci], *p)
	}

	for i := range companies {
		if summary := PriceCut(byCompany[i]); summary.WeightedPct != nil {
			priceCuts[i] = summary.WeightedPct
		}
	}

	matrix := models.CompetitionMatrix{
		Companies:         append([]string(nil), companies...),
		SharedDepartments: make([][]int, n),
		HeadToHead:        make([][]int, n),
		PriceCutDiff:      make([][]*float64, n),
	}

	for i := 0; i < n; i++ {
		matrix.SharedDepartments[i] = make([]int, n)
		matrix.HeadToHead[i] = make([]int, n)
		matrix.PriceCutDiff[i] = make([]*float64, n)
	}

	for i := 0; i < n; i++ {
		matrix.SharedDepartments[i][i] = len(depts[i])
		zero := 0.0
		if priceCuts[i] != nil {
			matrix.PriceCutDiff[i][i] = &zero
		}

		for j := i + 1; j < n; j++ {
			shared := intersectCount(depts[i], depts[j])
			matrix.SharedDepartments[i][j] = shared
			matrix.SharedDepartments[j][i] = shared

			h2h := headToHeadCount(subDepts[i], subDepts[j], subDeptAwards[i], subDeptAwards[j])
			matrix.HeadToHead[i][j] = h2h
			matrix.HeadToHead[j][i] = h2h

			if priceCuts[i] != nil && priceCuts[j] != nil {
				diff := *priceCuts[i] - *priceCuts[j]
				negDiff := -diff
				matrix.PriceCutDiff[i][j] = &diff
				matrix.PriceCutDiff[j][i] = &negDiff
			}
		}
	}

	return matrix
}

// intersectCount returns the size of the intersection of two string sets.
func intersectCount(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}

// headToHeadCount sums both companies' awards inside sub-departments where
// both are active.
func headToHeadCount(subsA, subsB map[string]struct{}, awardsA, awardsB map[string]int) int {
	count := 0
	for sub := range subsA {
		if _, ok := subsB[sub]; ok {
			count += awardsA[sub] + awardsB[sub]
		}
	}
	return count
}
