// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package analytics

import (
	"sort"

	"github.com/tenderlens/tenderlens/internal/models"
)

// EntityValue is one (entity, value) pair for concentration analysis.
type EntityValue struct {
	Name  string
	Value float64
}

// Concentration computes percentage shares and the Herfindahl-Hirschman
// Index over a set of (entity, value) pairs.
//
// HHI is the sum of squared percentage shares across ALL entities, on the
// 0-10,000 scale; a single-entity market scores 10,000. Shares in the
// response carry only the top N entities by value, ties broken by name
// ascending for determinism. topN <= 0 returns all entities.
//
// An empty or zero-valued input yields a zero HHI and empty shares rather
// than an error.
func Concentration(pairs []EntityValue, topN int) models.ConcentrationResponse {
	var total float64
	for _, p := range pairs {
		total += p.Value
	}

	resp := models.ConcentrationResponse{
		Shares:      []models.MarketShare{},
		TotalValue:  total,
		EntityCount: len(pairs),
	}
	if total <= 0 {
		return resp
	}

	sorted := make([]EntityValue, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Name < sorted[j].Name
	})

	var hhi float64
	for _, p := range sorted {
		share := p.Value / total * 100
		hhi += share * share
	}
	resp.HHI = hhi

	n := len(sorted)
	if topN > 0 && topN < n {
		n = topN
	}
	for _, p := range sorted[:n] {
		resp.Shares = append(resp.Shares, models.MarketShare{
			Name:     p.Name,
			Value:    p.Value,
			SharePct: p.Value / total * 100,
		})
	}

	return resp
}

// WinnerConcentration computes market concentration of awarded value by
// winning company.
func WinnerConcentration(projects []models.Project, topN int) models.ConcentrationResponse {
	return Concentration(groupValueBy(projects, func(p *models.Project) string { return p.Winner }), topN)
}

// DepartmentConcentration computes concentration of awarded value by buying
// department.
func DepartmentConcentration(projects []models.Project, topN int) models.ConcentrationResponse {
	return Concentration(groupValueBy(projects, func(p *models.Project) string { return p.DeptName }), topN)
}

// groupValueBy sums awarded value per key, skipping records with an empty
// key.
func groupValueBy(projects []models.Project, key func(*models.Project) string) []EntityValue {
	totals := make(map[string]float64)
	for i := range projects {
		k := key(&projects[i])
		if k == "" {
			continue
		}
		totals[k] += projects[i].SumPriceAgree
	}

	pairs := make([]EntityValue, 0, len(totals))
	for name, value := range totals {
		pairs = append(pairs, EntityValue{Name: name, Value: value})
	}
	return pairs
}
