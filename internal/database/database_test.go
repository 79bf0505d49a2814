// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tenderlens/tenderlens/internal/config"
	"github.com/tenderlens/tenderlens/internal/models"
)

// setupTestDB opens an in-memory DuckDB instance for one test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver:    DriverDuckDB,
		Path:      ":memory:",
		MaxMemory: "1GB",
		Threads:   2,
	}
	db, err := New(cfg, WithRetryPolicy(2, 10*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testProject(id string) models.Project {
	return models.Project{
		ProjectID:          id,
		ProjectName:        "Road resurfacing " + id,
		ProjectDetail:      "Asphalt works",
		Winner:             "Acme Construction Ltd",
		DeptName:           "Ministry of Transport",
		DeptSubName:        "Highways Bureau",
		PurchaseMethodName: "e-bidding",
		ProjectTypeName:    "construction",
		TransactionDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		SumPriceAgree:      9_000_000,
		PriceBuild:         10_000_000,
		Province:           "Central",
		District:           "North",
	}
}

func seedProjects(t *testing.T, db *DB, projects []models.Project) {
	t.Helper()
	result, err := db.ImportProjects(context.Background(), projects)
	if err != nil {
		t.Fatalf("failed to seed projects: %v", err)
	}
	if result.Imported != len(projects) {
		t.Fatalf("seeded %d of %d projects", result.Imported, len(projects))
	}
}

func TestCountProjects(t *testing.T) {
	db := setupTestDB(t)
	seedProjects(t, db, []models.Project{
		testProject("P-001"), testProject("P-002"), testProject("P-003"),
	})

	count, err := db.CountProjects(context.Background(), &ProjectFilter{})
	if err != nil {
		t.Fatalf("CountProjects failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 projects, got %d", count)
	}
}

func TestFetchProjects_EmptyResultIsNotAbsent(t *testing.T) {
	db := setupTestDB(t)

	result, err := db.FetchProjects(context.Background(), &ProjectFilter{}, nil)
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if result.Projects == nil {
		t.Error("empty fetch must return an empty slice, not nil")
	}
	if result.TotalCount != 0 || result.Truncated {
		t.Errorf("unexpected metadata: total=%d truncated=%v", result.TotalCount, result.Truncated)
	}
}

func TestFetchProjects_TruncatesAtCap(t *testing.T) {
	db := setupTestDB(t)
	projects := make([]models.Project, 7)
	for i := range projects {
		projects[i] = testProject(fmt.Sprintf("P-%03d", i+1))
	}
	seedProjects(t, db, projects)

	result, err := db.FetchProjects(context.Background(), &ProjectFilter{},
		&FetchOptions{MaxRecords: 5, ChunkSize: 2})
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if len(result.Projects) != 5 {
		t.Errorf("expected 5 records at the cap, got %d", len(result.Projects))
	}
	if result.TotalCount != 7 {
		t.Errorf("expected true total 7, got %d", result.TotalCount)
	}
	if !result.Truncated {
		t.Error("expected truncation flag")
	}
	// Keyset pagination keys on project_id, so the bounded set is the
	// first IDs in order.
	if result.Projects[0].ProjectID != "P-001" || result.Projects[4].ProjectID != "P-005" {
		t.Errorf("unexpected bounded window: %s .. %s",
			result.Projects[0].ProjectID, result.Projects[4].ProjectID)
	}
}

func TestFetchProjects_KeywordFilter(t *testing.T) {
	db := setupTestDB(t)
	bridge := testProject("P-100")
	bridge.ProjectName = "BRIDGE construction over Chao river"
	road := testProject("P-200")
	road.ProjectName = "Rural road upgrade"
	seedProjects(t, db, []models.Project{bridge, road})

	// Case-insensitive, matched across the searchable columns.
	result, err := db.FetchProjects(context.Background(),
		&ProjectFilter{IncludeKeywords: []string{"bridge", "river"}}, nil)
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if len(result.Projects) != 1 || result.Projects[0].ProjectID != "P-100" {
		t.Fatalf("expected only the bridge project, got %d records", len(result.Projects))
	}

	// Exclude rejects on any match.
	result, err = db.FetchProjects(context.Background(),
		&ProjectFilter{ExcludeKeywords: []string{"bridge"}}, nil)
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if len(result.Projects) != 1 || result.Projects[0].ProjectID != "P-200" {
		t.Fatalf("expected only the road project, got %d records", len(result.Projects))
	}
}

func TestFetchProjects_PriceBoundsInMillions(t *testing.T) {
	db := setupTestDB(t)
	small := testProject("P-300")
	small.SumPriceAgree = 500_000
	large := testProject("P-301")
	large.SumPriceAgree = 25_000_000
	seedProjects(t, db, []models.Project{small, large})

	result, err := db.FetchProjects(context.Background(),
		&ProjectFilter{PriceStartM: floatPtr(1), PriceEndM: floatPtr(50)}, nil)
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if len(result.Projects) != 1 || result.Projects[0].ProjectID != "P-301" {
		t.Fatalf("expected only the 25M project, got %d records", len(result.Projects))
	}
}

func TestFetchProjects_InvalidFilterRejected(t *testing.T) {
	db := setupTestDB(t)
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := db.FetchProjects(context.Background(),
		&ProjectFilter{DateStart: &late, DateEnd: &early}, nil)
	if err == nil {
		t.Fatal("expected validation error for inverted date range")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected *ValidationError, got %T: %v", err, err)
	}
}

func TestFetchProjects_BackendUnavailableAfterRetries(t *testing.T) {
	db := setupTestDB(t)
	seedProjects(t, db, []models.Project{testProject("P-401")})

	// Kill the backend out from under the fetcher. Every attempt in the
	// retry budget fails the same way, so the wrapped sentinel surfaces.
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	_, err := db.FetchProjects(context.Background(), &ProjectFilter{}, nil)
	if err == nil {
		t.Fatal("expected error from a closed backend")
	}
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestImportProjects_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	seedProjects(t, db, []models.Project{testProject("P-001")})

	updated := testProject("P-001")
	updated.Winner = "Beta Civil Works Co"
	result, err := db.ImportProjects(context.Background(), []models.Project{updated})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", result.Imported)
	}

	fetched, err := db.FetchProjects(context.Background(), &ProjectFilter{}, nil)
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if len(fetched.Projects) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(fetched.Projects))
	}
	if fetched.Projects[0].Winner != "Beta Civil Works Co" {
		t.Errorf("upsert did not overwrite: %s", fetched.Projects[0].Winner)
	}
}

func TestImportProjects_SkipsRecordsWithoutID(t *testing.T) {
	db := setupTestDB(t)
	noID := testProject("")
	result, err := db.ImportProjects(context.Background(), []models.Project{noID, testProject("P-001")})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 1 {
		t.Errorf("expected 1 imported / 1 skipped, got %d / %d", result.Imported, result.Skipped)
	}
}

func TestImportCSV(t *testing.T) {
	db := setupTestDB(t)
	csv := strings.Join([]string{
		"project_id,project_name,winner,transaction_date,sum_price_agree,price_build",
		"P-500,School renovation,Acme Construction Ltd,2025-06-01,4500000,5000000",
	}, "\n")

	result, err := db.ImportCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected 1 imported, got %d", result.Imported)
	}

	fetched, err := db.FetchProjects(context.Background(), &ProjectFilter{}, nil)
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	p := fetched.Projects[0]
	if p.SumPriceAgree != 4_500_000 {
		t.Errorf("numeric coercion lost: %v", p.SumPriceAgree)
	}
	if !p.TransactionDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date coercion lost: %v", p.TransactionDate)
	}
}

func TestListOptions(t *testing.T) {
	db := setupTestDB(t)
	a := testProject("P-001")
	b := testProject("P-002")
	b.DeptName = "Ministry of Education"
	b.DeptSubName = "Schools Division"
	b.Winner = "Beta Civil Works Co"
	c := testProject("P-003")
	seedProjects(t, db, []models.Project{a, b, c})

	depts, err := db.ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments failed: %v", err)
	}
	if len(depts) != 2 || depts[0] != "Ministry of Education" {
		t.Errorf("unexpected departments: %v", depts)
	}

	subs, err := db.ListSubDepartments(context.Background(), "Ministry of Transport")
	if err != nil {
		t.Fatalf("ListSubDepartments failed: %v", err)
	}
	if len(subs) != 1 || subs[0] != "Highways Bureau" {
		t.Errorf("unexpected sub-departments: %v", subs)
	}

	// Acme has 2 awards, Beta 1: a threshold of 2 keeps only Acme.
	companies, err := db.ListCompanies(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListCompanies failed: %v", err)
	}
	if len(companies) != 1 || companies[0] != "Acme Construction Ltd" {
		t.Errorf("unexpected companies: %v", companies)
	}
}
