// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package database

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tenderlens/tenderlens/internal/frame"
	"github.com/tenderlens/tenderlens/internal/logging"
	"github.com/tenderlens/tenderlens/internal/metrics"
	"github.com/tenderlens/tenderlens/internal/models"
)

// ImportResult summarizes a bulk load.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// upsertQuery builds the dialect-appropriate INSERT ... ON CONFLICT for the
// projects table. Both DuckDB and PostgreSQL accept this form.
func (db *DB) upsertQuery() string {
	cols := []string{
		"project_id", "project_name", "project_detail", "winner",
		"dept_name", "dept_sub_name", "purchase_method_name", "project_type_name",
		"transaction_date", "sum_price_agree", "price_build", "province", "district",
	}
	placeholders := make([]string, len(cols))
	argPos := 1
	for i := range cols {
		placeholders[i] = placeholder(db.usePositionalParams(), &argPos)
	}
	updates := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	return fmt.Sprintf(
		`INSERT INTO projects (%s) VALUES (%s) ON CONFLICT (project_id) DO UPDATE SET %s`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

// ImportProjects upserts the records in one transaction. Records without a
// project identifier are skipped and counted; any other failure rolls the
// whole batch back.
func (db *DB) ImportProjects(ctx context.Context, projects []models.Project) (*ImportResult, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, db.upsertQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	result := &ImportResult{}
	for _, p := range projects {
		if p.ProjectID == "" {
			result.Skipped++
			continue
		}
		var txDate interface{}
		if !p.TransactionDate.IsZero() {
			txDate = p.TransactionDate
		}
		_, err := stmt.ExecContext(ctx,
			p.ProjectID, p.ProjectName, p.ProjectDetail, p.Winner,
			p.DeptName, p.DeptSubName, p.PurchaseMethodName, p.ProjectTypeName,
			txDate, p.SumPriceAgree, p.PriceBuild, p.Province, p.District,
		)
		if err != nil {
			metrics.RecordQueryError("import_projects")
			return nil, fmt.Errorf("failed to upsert project %s: %w", p.ProjectID, err)
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordQueryError("import_projects")
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	metrics.ObserveQuery("import_projects", start)
	logging.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Project import committed")
	return result, nil
}

// ImportCSV reads procurement records from CSV, coerces them through the
// typed frame builder, and upserts the result.
func (db *DB) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	records, err := frame.ReadCSV(r)
	if err != nil {
		return nil, NewTranslationError("csv", "", err.Error())
	}
	f := frame.Build(frame.ProjectColumns(), records)
	return db.ImportProjects(ctx, f.ToProjects())
}
