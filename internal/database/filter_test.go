// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package database

import (
	"strings"
	"testing"
	"time"

	"github.com/tenderlens/tenderlens/internal/cache"
)

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func TestBuildFilterConditions_Empty(t *testing.T) {
	clauses, args := buildFilterConditions(&ProjectFilter{}, false, 1)
	if len(clauses) != 0 {
		t.Errorf("expected no clauses for empty filter, got %v", clauses)
	}
	if len(args) != 0 {
		t.Errorf("expected no args for empty filter, got %v", args)
	}
}

func TestBuildFilterConditions_EqualityFields(t *testing.T) {
	filter := &ProjectFilter{
		Department:     "Ministry of Transport",
		SubDepartment:  "Highways Bureau",
		PurchaseMethod: "e-bidding",
		ProjectType:    "construction",
	}
	clauses, args := buildFilterConditions(filter, false, 1)
	if len(clauses) != 4 {
		t.Fatalf("expected 4 clauses, got %d: %v", len(clauses), clauses)
	}
	if clauses[0] != "dept_name = ?" {
		t.Errorf("unexpected first clause: %s", clauses[0])
	}
	if len(args) != 4 || args[0] != "Ministry of Transport" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildFilterConditions_PositionalParams(t *testing.T) {
	filter := &ProjectFilter{
		Department: "Ministry of Health",
		Companies:  []string{"Acme Ltd", "Beta Co"},
	}
	clauses, args := buildFilterConditions(filter, true, 1)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d: %v", len(clauses), clauses)
	}
	if clauses[0] != "dept_name = $1" {
		t.Errorf("unexpected equality clause: %s", clauses[0])
	}
	if clauses[1] != "winner IN ($2, $3)" {
		t.Errorf("unexpected IN clause: %s", clauses[1])
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
}

func TestBuildFilterConditions_PriceScaledToMillions(t *testing.T) {
	filter := &ProjectFilter{
		PriceStartM: floatPtr(1.5),
		PriceEndM:   floatPtr(100),
	}
	clauses, args := buildFilterConditions(filter, false, 1)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %v", clauses)
	}
	if clauses[0] != "sum_price_agree >= ?" || clauses[1] != "sum_price_agree <= ?" {
		t.Errorf("unexpected price clauses: %v", clauses)
	}
	if args[0] != 1_500_000.0 {
		t.Errorf("lower bound not scaled: %v", args[0])
	}
	if args[1] != 100_000_000.0 {
		t.Errorf("upper bound not scaled: %v", args[1])
	}
}

func TestBuildFilterConditions_IncludeKeywords(t *testing.T) {
	filter := &ProjectFilter{IncludeKeywords: []string{"bridge", "river"}}
	clauses, args := buildFilterConditions(filter, false, 1)

	// Each keyword is one AND term: a disjunction across the three
	// searchable columns.
	if len(clauses) != 2 {
		t.Fatalf("expected one clause per keyword, got %v", clauses)
	}
	for _, c := range clauses {
		for _, col := range []string{"project_name", "project_detail", "winner"} {
			if !strings.Contains(c, col+" ILIKE") {
				t.Errorf("clause missing column %s: %s", col, c)
			}
		}
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args (3 columns x 2 keywords), got %d", len(args))
	}
	if args[0] != "%bridge%" || args[3] != "%river%" {
		t.Errorf("unexpected patterns: %v", args)
	}
}

func TestBuildFilterConditions_ExcludeKeywordsNegated(t *testing.T) {
	filter := &ProjectFilter{ExcludeKeywords: []string{"maintenance"}}
	clauses, _ := buildFilterConditions(filter, false, 1)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %v", clauses)
	}
	if !strings.HasPrefix(clauses[0], "NOT (") {
		t.Errorf("exclude clause not negated: %s", clauses[0])
	}
}

func TestBuildFilterConditions_LikeMetacharactersEscaped(t *testing.T) {
	filter := &ProjectFilter{IncludeKeywords: []string{"100%_done"}}
	_, args := buildFilterConditions(filter, false, 1)
	want := `%100\%\_done%`
	if args[0] != want {
		t.Errorf("expected escaped pattern %q, got %q", want, args[0])
	}
}

func TestProjectFilterValidate(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  ProjectFilter
		wantErr bool
	}{
		{"empty filter valid", ProjectFilter{}, false},
		{"valid range", ProjectFilter{DateStart: timePtr(early), DateEnd: timePtr(late)}, false},
		{"inverted dates", ProjectFilter{DateStart: timePtr(late), DateEnd: timePtr(early)}, true},
		{"negative price", ProjectFilter{PriceStartM: floatPtr(-1)}, true},
		{"inverted prices", ProjectFilter{PriceStartM: floatPtr(10), PriceEndM: floatPtr(5)}, true},
		{"blank keyword", ProjectFilter{IncludeKeywords: []string{"  "}}, true},
		{"blank exclude keyword", ProjectFilter{ExcludeKeywords: []string{""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeyParams_UnsetEqualsEmpty(t *testing.T) {
	unset := &ProjectFilter{}
	empty := &ProjectFilter{
		Department:      "",
		IncludeKeywords: nil,
		Companies:       []string{},
	}
	keyA := cache.GenerateKey("projects", unset.KeyParams())
	keyB := cache.GenerateKey("projects", empty.KeyParams())
	if keyA != keyB {
		t.Errorf("unset and empty filters must share a cache key: %s vs %s", keyA, keyB)
	}
}

func TestKeyParams_CompanyOrderInsensitive(t *testing.T) {
	a := &ProjectFilter{Companies: []string{"Beta Co", "Acme Ltd"}}
	b := &ProjectFilter{Companies: []string{"Acme Ltd", "Beta Co"}}
	if cache.GenerateKey("projects", a.KeyParams()) != cache.GenerateKey("projects", b.KeyParams()) {
		t.Error("company order must not affect the cache key")
	}
}

func TestKeyParams_KeywordOrderSignificant(t *testing.T) {
	a := &ProjectFilter{IncludeKeywords: []string{"road", "bridge"}}
	b := &ProjectFilter{IncludeKeywords: []string{"bridge", "road"}}
	if cache.GenerateKey("projects", a.KeyParams()) == cache.GenerateKey("projects", b.KeyParams()) {
		t.Error("keyword order is part of the filter and must affect the key")
	}
}

func TestBuildFilterWhereClause_Base(t *testing.T) {
	db := &DB{driver: DriverDuckDB}
	clause, args := db.buildFilterWhereClause(&ProjectFilter{})
	if clause != "1=1" {
		t.Errorf("empty filter should produce bare base, got %s", clause)
	}
	if len(args) != 0 {
		t.Errorf("unexpected args: %v", args)
	}

	clause, args = db.buildFilterWhereClause(&ProjectFilter{Department: "Ministry of Energy"})
	if clause != "1=1 AND dept_name = ?" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if len(args) != 1 {
		t.Errorf("unexpected args: %v", args)
	}
}
