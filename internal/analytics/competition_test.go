// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package analytics

import (
	"math"
	"testing"

	"github.com/tenderlens/tenderlens/internal/models"
)

func competitionFixture() []models.Project {
	return []models.Project{
		{Winner: "A", DeptName: "Highways", DeptSubName: "Bridges", SumPriceAgree: 90, PriceBuild: 100},
		{Winner: "A", DeptName: "Health", DeptSubName: "Hospitals", SumPriceAgree: 45, PriceBuild: 50},
		{Winner: "B", DeptName: "Highways", DeptSubName: "Bridges", SumPriceAgree: 80, PriceBuild: 100},
		{Winner: "B", DeptName: "Education", DeptSubName: "Schools", SumPriceAgree: 50, PriceBuild: 50},
		{Winner: "C", DeptName: "Education", DeptSubName: "Schools", SumPriceAgree: 10, PriceBuild: 0},
	}
}

func TestCompetition_SharedDepartments(t *testing.T) {
	m := Competition(competitionFixture(), []string{"A", "B", "C"})

	// A and B share Highways only
	if m.SharedDepartments[0][1] != 1 {
		t.Errorf("Expected A/B shared departments 1, got %d", m.SharedDepartments[0][1])
	}
	// B and C share Education
	if m.SharedDepartments[1][2] != 1 {
		t.Errorf("Expected B/C shared departments 1, got %d", m.SharedDepartments[1][2])
	}
	// A and C share nothing
	if m.SharedDepartments[0][2] != 0 {
		t.Errorf("Expected A/C shared departments 0, got %d", m.SharedDepartments[0][2])
	}
	// Diagonal carries own department counts
	if m.SharedDepartments[0][0] != 2 {
		t.Errorf("Expected A's own department count 2, got %d", m.SharedDepartments[0][0])
	}
}

func TestCompetition_Symmetry(t *testing.T) {
	m := Competition(competitionFixture(), []string{"A", "B", "C"})

	for i := range m.Companies {
		for j := range m.Companies {
			if m.SharedDepartments[i][j] != m.SharedDepartments[j][i] {
				t.Errorf("SharedDepartments not symmetric at (%d,%d)", i, j)
			}
			if m.HeadToHead[i][j] != m.HeadToHead[j][i] {
				t.Errorf("HeadToHead not symmetric at (%d,%d)", i, j)
			}
		}
	}
}

func TestCompetition_HeadToHead(t *testing.T) {
	m := Competition(competitionFixture(), []string{"A", "B"})

	// Both active in Bridges: A has 1 award there, B has 1 -> 2 combined.
	if m.HeadToHead[0][1] != 2 {
		t.Errorf("Expected head-to-head 2, got %d", m.HeadToHead[0][1])
	}
	if m.HeadToHead[0][0] != 0 {
		t.Errorf("Expected zero diagonal, got %d", m.HeadToHead[0][0])
	}
}

func TestCompetition_PriceCutDiff(t *testing.T) {
	m := Competition(competitionFixture(), []string{"A", "B", "C"})

	// A: (135/150-1)*100 = -10; B: (130/150-1)*100 = -13.33
	diff := m.PriceCutDiff[0][1]
	if diff == nil {
		t.Fatal("Expected defined price-cut differential for A/B")
	}
	want := -10.0 - (130.0/150.0-1)*100
	if math.Abs(*diff-want) > 1e-9 {
		t.Errorf("Expected diff %f, got %f", want, *diff)
	}
	// Antisymmetric
	if math.Abs(*m.PriceCutDiff[1][0]+*diff) > 1e-9 {
		t.Error("Expected antisymmetric price-cut differentials")
	}
	// C has no usable budget: differential undefined
	if m.PriceCutDiff[0][2] != nil {
		t.Error("Expected undefined differential against a company with no usable budgets")
	}
}

func TestCompetition_EmptyInput(t *testing.T) {
	m := Competition(nil, []string{"A", "B"})
	if len(m.Companies) != 2 {
		t.Fatalf("Expected 2 companies, got %d", len(m.Companies))
	}
	if m.SharedDepartments[0][1] != 0 || m.HeadToHead[0][1] != 0 {
		t.Error("Expected zero matrices for empty input")
	}
	if m.PriceCutDiff[0][1] != nil {
		t.Error("Expected undefined differentials for empty input")
	}
}
