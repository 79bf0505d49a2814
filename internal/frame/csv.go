// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

// WriteCSV serializes the frame as delimited text: a header row of column
// names followed by one row per record, in declared column order.
//
// Formatting is stable for external tooling: dates are RFC 3339 (ISO-8601),
// numerics use the shortest exact decimal form, and missing values render
// as empty cells.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(f.cols))
	for i, c := range f.cols {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(f.cols))
	for r := range f.rows {
		for c, col := range f.cols {
			record[c] = formatCell(col.Kind, f.rows[r][c])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders one typed value for CSV output.
func formatCell(kind Kind, v interface{}) string {
	switch kind {
	case KindDate:
		t, ok := v.(time.Time)
		if !ok || t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	case KindNumeric:
		n, ok := v.(float64)
		if !ok || math.IsNaN(n) {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		s, _ := v.(string)
		return s
	}
}

// ReadCSV parses delimited text with a header row into raw records suitable
// for Build. Unknown header names are carried through untouched; Build
// ignores columns the schema does not declare.
func ReadCSV(r io.Reader) ([]map[string]interface{}, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var records []map[string]interface{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rec := make(map[string]interface{}, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
