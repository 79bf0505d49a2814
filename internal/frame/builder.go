// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tenderlens/tenderlens/internal/models"
)

// dateLayouts are the accepted input formats for date coercion, tried in
// order. RFC 3339 covers backend-native timestamps; the short forms cover
// CSV ingestion.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Build converts raw records into a typed frame, applying the coercion
// passes per declared column kind:
//
//  1. date columns parsed to time.Time (zero time on failure or absence)
//  2. numeric columns coerced to float64 (NaN on failure or absence)
//  3. string columns, including identifiers, rendered as plain strings
//
// A column absent from a record yields that kind's missing marker; coercion
// never fails the build. Zero input records produce a valid zero-row frame,
// not nil.
func Build(cols []Column, records []map[string]interface{}) *Frame {
	f := New(cols)
	for _, rec := range records {
		row := make([]interface{}, len(f.cols))
		for i, col := range f.cols {
			raw, present := rec[col.Name]
			if !present {
				row[i] = missingValue(col.Kind)
				continue
			}
			switch col.Kind {
			case KindDate:
				row[i] = coerceDate(raw)
			case KindNumeric:
				row[i] = coerceNumeric(raw)
			default:
				row[i] = coerceString(raw)
			}
		}
		f.appendRow(row)
	}
	return f
}

// missingValue returns the explicit missing marker for a column kind.
func missingValue(kind Kind) interface{} {
	switch kind {
	case KindNumeric:
		return math.NaN()
	case KindDate:
		return time.Time{}
	default:
		return ""
	}
}

// coerceDate parses date-like values. Unparseable input yields the zero
// time, never an error.
func coerceDate(raw interface{}) time.Time {
	switch v := raw.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v == nil {
			return time.Time{}
		}
		return *v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

// coerceNumeric parses numeric-like values. Unparseable input yields NaN,
// never an error.
func coerceNumeric(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return math.NaN()
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
		return math.NaN()
	case nil:
		return math.NaN()
	default:
		return math.NaN()
	}
}

// coerceString renders any value, identifiers included, as a plain
// displayable string.
func coerceString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	case fmt.Stringer:
		return v.String()
	case float64:
		// Identifier columns sometimes arrive as numerics; keep them
		// display-stable without a float exponent.
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// ProjectColumns is the canonical column declaration for project-award
// frames. Column order here is the stable export order external tooling
// depends on.
func ProjectColumns() []Column {
	return []Column{
		{Name: "project_id", Kind: KindString},
		{Name: "project_name", Kind: KindString},
		{Name: "project_detail", Kind: KindString},
		{Name: "winner", Kind: KindString},
		{Name: "dept_name", Kind: KindString},
		{Name: "dept_sub_name", Kind: KindString},
		{Name: "purchase_method_name", Kind: KindString},
		{Name: "project_type_name", Kind: KindString},
		{Name: "transaction_date", Kind: KindDate},
		{Name: "sum_price_agree", Kind: KindNumeric},
		{Name: "price_build", Kind: KindNumeric},
		{Name: "province", Kind: KindString},
		{Name: "district", Kind: KindString},
	}
}

// FromProjects builds a typed frame from already-typed project records in
// the canonical column order.
func FromProjects(projects []models.Project) *Frame {
	f := New(ProjectColumns())
	for i := range projects {
		p := &projects[i]
		f.appendRow([]interface{}{
			p.ProjectID,
			p.ProjectName,
			p.ProjectDetail,
			p.Winner,
			p.DeptName,
			p.DeptSubName,
			p.PurchaseMethodName,
			p.ProjectTypeName,
			p.TransactionDate,
			p.SumPriceAgree,
			p.PriceBuild,
			p.Province,
			p.District,
		})
	}
	return f
}

// ToProjects converts a frame built over the canonical project columns back
// into typed project records, for ingestion paths that arrive as raw CSV.
// Rows with a missing project_id are skipped: the identifier anchors keyset
// pagination and upsert-by-key semantics.
func (f *Frame) ToProjects() []models.Project {
	idx := make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		idx[c.Name] = i
	}

	str := func(row int, name string) string {
		i, ok := idx[name]
		if !ok {
			return ""
		}
		s, _ := f.rows[row][i].(string)
		return s
	}
	num := func(row int, name string) float64 {
		i, ok := idx[name]
		if !ok {
			return 0
		}
		v, _ := f.rows[row][i].(float64)
		if math.IsNaN(v) {
			return 0
		}
		return v
	}
	date := func(row int, name string) time.Time {
		i, ok := idx[name]
		if !ok {
			return time.Time{}
		}
		t, _ := f.rows[row][i].(time.Time)
		return t
	}

	projects := make([]models.Project, 0, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		id := str(r, "project_id")
		if id == "" {
			continue
		}
		projects = append(projects, models.Project{
			ProjectID:          id,
			ProjectName:        str(r, "project_name"),
			ProjectDetail:      str(r, "project_detail"),
			Winner:             str(r, "winner"),
			DeptName:           str(r, "dept_name"),
			DeptSubName:        str(r, "dept_sub_name"),
			PurchaseMethodName: str(r, "purchase_method_name"),
			ProjectTypeName:    str(r, "project_type_name"),
			TransactionDate:    date(r, "transaction_date"),
			SumPriceAgree:      num(r, "sum_price_agree"),
			PriceBuild:         num(r, "price_build"),
			Province:           str(r, "province"),
			District:           str(r, "district"),
		})
	}
	return projects
}
