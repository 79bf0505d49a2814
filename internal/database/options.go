// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tenderlens/tenderlens/internal/metrics"
)

// listDistinct runs a DISTINCT projection over a single text column,
// skipping empties, ordered alphabetically.
func (db *DB) listDistinct(ctx context.Context, operation, query string, args ...interface{}) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQueryError(operation)
		return nil, fmt.Errorf("failed to query %s: %w", operation, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			metrics.RecordQueryError(operation)
			return nil, fmt.Errorf("failed to scan %s row: %w", operation, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQueryError(operation)
		return nil, fmt.Errorf("failed to iterate %s rows: %w", operation, err)
	}

	metrics.ObserveQuery(operation, start)
	return values, nil
}

// ListDepartments returns every distinct procuring department.
func (db *DB) ListDepartments(ctx context.Context) ([]string, error) {
	return db.listDistinct(ctx, "list_departments",
		`SELECT DISTINCT dept_name FROM projects WHERE dept_name <> '' ORDER BY dept_name`)
}

// ListSubDepartments returns the distinct sub-departments, optionally
// scoped to one department.
func (db *DB) ListSubDepartments(ctx context.Context, department string) ([]string, error) {
	if department == "" {
		return db.listDistinct(ctx, "list_sub_departments",
			`SELECT DISTINCT dept_sub_name FROM projects WHERE dept_sub_name <> '' ORDER BY dept_sub_name`)
	}
	argPos := 1
	query := fmt.Sprintf(
		`SELECT DISTINCT dept_sub_name FROM projects WHERE dept_sub_name <> '' AND dept_name = %s ORDER BY dept_sub_name`,
		placeholder(db.usePositionalParams(), &argPos))
	return db.listDistinct(ctx, "list_sub_departments", query, department)
}

// ListPurchaseMethods returns every distinct procurement method.
func (db *DB) ListPurchaseMethods(ctx context.Context) ([]string, error) {
	return db.listDistinct(ctx, "list_purchase_methods",
		`SELECT DISTINCT purchase_method_name FROM projects WHERE purchase_method_name <> '' ORDER BY purchase_method_name`)
}

// ListProjectTypes returns every distinct project type.
func (db *DB) ListProjectTypes(ctx context.Context) ([]string, error) {
	return db.listDistinct(ctx, "list_project_types",
		`SELECT DISTINCT project_type_name FROM projects WHERE project_type_name <> '' ORDER BY project_type_name`)
}

// ListCompanies returns winners holding at least minProjects awards,
// ordered alphabetically. minProjects below 1 means no threshold.
func (db *DB) ListCompanies(ctx context.Context, minProjects int) ([]string, error) {
	if minProjects < 1 {
		minProjects = 1
	}
	argPos := 1
	query := fmt.Sprintf(
		`SELECT winner FROM projects WHERE winner <> '' GROUP BY winner HAVING COUNT(*) >= %s ORDER BY winner`,
		placeholder(db.usePositionalParams(), &argPos))
	return db.listDistinct(ctx, "list_companies", query, minProjects)
}
