// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package frame

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tenderlens/tenderlens/internal/models"
)

func testColumns() []Column {
	return []Column{
		{Name: "project_id", Kind: KindString},
		{Name: "transaction_date", Kind: KindDate},
		{Name: "sum_price_agree", Kind: KindNumeric},
	}
}

func TestBuild_TypedCoercion(t *testing.T) {
	records := []map[string]interface{}{
		{
			"project_id":       12345, // numeric identifier must become a string
			"transaction_date": "2025-03-15",
			"sum_price_agree":  "1,500,000.50",
		},
		{
			"project_id":       "P-2",
			"transaction_date": time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			"sum_price_agree":  250000.0,
		},
	}

	f := Build(testColumns(), records)

	if f.NumRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", f.NumRows())
	}

	if got := f.Value(0, 0); got != "12345" {
		t.Errorf("Expected identifier coerced to string \"12345\", got %v", got)
	}
	d, ok := f.Value(0, 1).(time.Time)
	if !ok || d.Year() != 2025 || d.Month() != 3 || d.Day() != 15 {
		t.Errorf("Expected parsed date 2025-03-15, got %v", f.Value(0, 1))
	}
	if got := f.Value(0, 2).(float64); got != 1500000.50 {
		t.Errorf("Expected 1500000.50, got %f", got)
	}
}

func TestBuild_MissingMarkers(t *testing.T) {
	records := []map[string]interface{}{
		{"project_id": "P-1", "transaction_date": "not a date", "sum_price_agree": "N/A"},
		{"project_id": "P-2"}, // absent columns
	}

	f := Build(testColumns(), records)

	for row := 0; row < 2; row++ {
		if !f.IsMissing(row, 1) {
			t.Errorf("Row %d: expected missing date marker", row)
		}
		if !f.IsMissing(row, 2) {
			t.Errorf("Row %d: expected missing numeric marker", row)
		}
	}
	if f.IsMissing(0, 0) {
		t.Error("String columns are never missing")
	}
}

// Empty input must produce a valid zero-row frame, not nil: callers
// distinguish "matched nothing" from "did not run".
func TestBuild_EmptyInput(t *testing.T) {
	f := Build(testColumns(), nil)
	if f == nil {
		t.Fatal("Expected non-nil frame for empty input")
	}
	if f.NumRows() != 0 {
		t.Errorf("Expected 0 rows, got %d", f.NumRows())
	}
	if f.NumCols() != 3 {
		t.Errorf("Expected declared columns preserved, got %d", f.NumCols())
	}
}

func TestWriteCSV_StableFormat(t *testing.T) {
	f := Build(testColumns(), []map[string]interface{}{
		{
			"project_id":       "P-1",
			"transaction_date": "2025-03-15",
			"sum_price_agree":  90.5,
		},
		{
			"project_id": "P-2", // missing date and price render empty
		},
	})

	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "project_id,transaction_date,sum_price_agree" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if lines[1] != "P-1,2025-03-15T00:00:00Z,90.5" {
		t.Errorf("Unexpected row formatting: %s", lines[1])
	}
	if lines[2] != "P-2,," {
		t.Errorf("Expected empty cells for missing values, got: %s", lines[2])
	}
}

func TestReadCSV_RoundTrip(t *testing.T) {
	input := "project_id,transaction_date,sum_price_agree\nP-9,2025-01-02,1000\n"
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	f := Build(testColumns(), records)
	if f.Value(0, 0) != "P-9" {
		t.Errorf("Expected P-9, got %v", f.Value(0, 0))
	}
	if f.IsMissing(0, 1) || f.IsMissing(0, 2) {
		t.Error("Expected date and price to parse")
	}
}

func TestFromProjects_ToProjects(t *testing.T) {
	in := []models.Project{
		{
			ProjectID:       "P-1",
			ProjectName:     "Bridge repair",
			Winner:          "Alpha Construction",
			DeptName:        "Highways",
			TransactionDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			SumPriceAgree:   90,
			PriceBuild:      100,
		},
	}

	f := FromProjects(in)
	if f.NumRows() != 1 {
		t.Fatalf("Expected 1 row, got %d", f.NumRows())
	}

	out := f.ToProjects()
	if len(out) != 1 {
		t.Fatalf("Expected 1 project, got %d", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("Round trip mismatch:\n in: %+v\nout: %+v", in[0], out[0])
	}
}

func TestToProjects_SkipsRowsWithoutID(t *testing.T) {
	f := Build(ProjectColumns(), []map[string]interface{}{
		{"project_name": "no id"},
		{"project_id": "P-1", "project_name": "has id"},
	})
	out := f.ToProjects()
	if len(out) != 1 || out[0].ProjectID != "P-1" {
		t.Errorf("Expected only the identified row, got %+v", out)
	}
}
