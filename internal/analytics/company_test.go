// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/tenderlens/tenderlens/internal/models"
)

func TestCompanyAggregates(t *testing.T) {
	projects := []models.Project{
		{Winner: "A", DeptName: "Highways", SumPriceAgree: 90, PriceBuild: 100},
		{Winner: "A", DeptName: "Health", SumPriceAgree: 40, PriceBuild: 50},
		{Winner: "A", DeptName: "Health", SumPriceAgree: 20, PriceBuild: 0}, // undefined budget
		{Winner: "B", DeptName: "Highways", SumPriceAgree: 500, PriceBuild: 500},
	}

	aggs := CompanyAggregates(projects)

	if len(aggs) != 2 {
		t.Fatalf("Expected 2 companies, got %d", len(aggs))
	}
	// Sorted by total value descending: B first
	if aggs[0].Winner != "B" {
		t.Errorf("Expected B first, got %s", aggs[0].Winner)
	}

	a := aggs[1]
	if a.ProjectCount != 3 || a.TotalValue != 150 || a.UniqueDepartments != 2 {
		t.Errorf("Unexpected aggregate for A: %+v", a)
	}
	if math.Abs(a.AvgValue-50) > 1e-9 {
		t.Errorf("Expected avg 50, got %f", a.AvgValue)
	}
	// Value-weighted over defined budgets only: (130/150-1)*100
	if a.AvgPriceCut == nil {
		t.Fatal("Expected defined avg price cut for A")
	}
	want := (130.0/150.0 - 1) * 100
	if math.Abs(*a.AvgPriceCut-want) > 1e-9 {
		t.Errorf("Expected avg price cut %f, got %f", want, *a.AvgPriceCut)
	}
}

func TestCompanyAggregates_UndefinedPriceCut(t *testing.T) {
	aggs := CompanyAggregates([]models.Project{
		{Winner: "X", SumPriceAgree: 10, PriceBuild: 0},
	})
	if len(aggs) != 1 {
		t.Fatalf("Expected 1 company, got %d", len(aggs))
	}
	if aggs[0].AvgPriceCut != nil {
		t.Error("Expected undefined avg price cut when no budget is usable")
	}
}

func TestCompanyAggregates_Empty(t *testing.T) {
	if aggs := CompanyAggregates(nil); len(aggs) != 0 {
		t.Errorf("Expected empty aggregates, got %v", aggs)
	}
}

func TestFilterByMinProjects(t *testing.T) {
	aggs := []models.CompanyAggregate{
		{Winner: "Big", ProjectCount: 10},
		{Winner: "Small", ProjectCount: 2},
	}

	filtered := FilterByMinProjects(aggs, 5)
	if len(filtered) != 1 || filtered[0].Winner != "Big" {
		t.Errorf("Expected only Big, got %v", filtered)
	}

	// minProjects <= 1 keeps everything
	if got := FilterByMinProjects(aggs, 1); len(got) != 2 {
		t.Errorf("Expected all aggregates, got %v", got)
	}
}

func TestSummary(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{Winner: "A", DeptName: "Highways", TransactionDate: jun, SumPriceAgree: 90, PriceBuild: 100},
		{Winner: "B", DeptName: "Highways", TransactionDate: jan, SumPriceAgree: 10, PriceBuild: 10},
	}

	stats := Summary(projects)

	if stats.ProjectCount != 2 || stats.CompanyCount != 2 || stats.DeptCount != 1 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if math.Abs(stats.TotalValue-100) > 1e-9 || math.Abs(stats.AvgValue-50) > 1e-9 {
		t.Errorf("Unexpected values: total=%f avg=%f", stats.TotalValue, stats.AvgValue)
	}
	if stats.FirstAward == nil || !stats.FirstAward.Equal(jan) {
		t.Errorf("Expected first award %v, got %v", jan, stats.FirstAward)
	}
	if stats.LastAward == nil || !stats.LastAward.Equal(jun) {
		t.Errorf("Expected last award %v, got %v", jun, stats.LastAward)
	}
}

func TestSummary_Empty(t *testing.T) {
	stats := Summary(nil)
	if stats.ProjectCount != 0 || stats.FirstAward != nil || stats.PriceCut.WeightedPct != nil {
		t.Errorf("Expected zero summary, got %+v", stats)
	}
}
