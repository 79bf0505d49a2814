// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Package frame provides the typed tabular structure produced from raw
// retrieved records: declared column kinds (date, numeric, string), explicit
// missing-value markers, and stable-order CSV export.
//
// A zero-row Frame is a valid value distinct from an absent result: empty
// means the query ran and matched nothing, absent means the query did not
// run at all.
package frame

import (
	"math"
	"time"
)

// Kind classifies a column's value type.
type Kind int

const (
	// KindString holds displayable strings; identifiers are coerced here.
	KindString Kind = iota

	// KindNumeric holds float64 values; NaN marks a missing or
	// non-parseable value.
	KindNumeric

	// KindDate holds time.Time values; the zero time marks a missing or
	// non-parseable value.
	KindDate
)

// Column declares one frame column.
type Column struct {
	Name string
	Kind Kind
}

// Frame is an in-memory table with declared column types. Column order is
// fixed at construction and preserved through export.
type Frame struct {
	cols []Column
	rows [][]interface{}
}

// New creates an empty frame with the given column declarations.
func New(cols []Column) *Frame {
	c := make([]Column, len(cols))
	copy(c, cols)
	return &Frame{cols: c}
}

// Columns returns the frame's column declarations in order.
func (f *Frame) Columns() []Column {
	return f.cols
}

// NumRows returns the number of rows in the frame.
func (f *Frame) NumRows() int {
	return len(f.rows)
}

// NumCols returns the number of columns in the frame.
func (f *Frame) NumCols() int {
	return len(f.cols)
}

// Value returns the typed value at (row, col). Callers must respect the
// column kind: KindString -> string, KindNumeric -> float64 (NaN = missing),
// KindDate -> time.Time (zero = missing).
func (f *Frame) Value(row, col int) interface{} {
	return f.rows[row][col]
}

// ColumnIndex returns the position of the named column, or -1 when absent.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// IsMissing reports whether the value at (row, col) is the missing marker
// for its column kind. Strings are never missing; absent string input
// coerces to "".
func (f *Frame) IsMissing(row, col int) bool {
	switch f.cols[col].Kind {
	case KindNumeric:
		v, ok := f.rows[row][col].(float64)
		return !ok || math.IsNaN(v)
	case KindDate:
		v, ok := f.rows[row][col].(time.Time)
		return !ok || v.IsZero()
	default:
		return false
	}
}

// appendRow adds a coerced row. The builder guarantees the row length and
// element types match the column declarations.
func (f *Frame) appendRow(row []interface{}) {
	f.rows = append(f.rows, row)
}
