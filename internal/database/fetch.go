// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tenderlens/tenderlens/internal/logging"
	"github.com/tenderlens/tenderlens/internal/metrics"
	"github.com/tenderlens/tenderlens/internal/models"
)

// Fetch bounds. MaxRecords caps any single retrieval; ChunkSize is the
// keyset page size used to stream large result sets without holding a
// cursor open across the whole fetch.
const (
	DefaultMaxRecords = 50000
	DefaultChunkSize  = 5000
)

// FetchResult carries a bounded retrieval plus enough metadata for the
// caller to tell a complete result from a truncated one.
type FetchResult struct {
	Projects   []models.Project
	TotalCount int
	Truncated  bool
}

// FetchOptions tunes a single retrieval. Zero values fall back to the
// package defaults.
type FetchOptions struct {
	MaxRecords int
	ChunkSize  int
}

func (o *FetchOptions) withDefaults() FetchOptions {
	out := FetchOptions{MaxRecords: DefaultMaxRecords, ChunkSize: DefaultChunkSize}
	if o != nil {
		if o.MaxRecords > 0 {
			out.MaxRecords = o.MaxRecords
		}
		if o.ChunkSize > 0 {
			out.ChunkSize = o.ChunkSize
		}
	}
	if out.ChunkSize > out.MaxRecords {
		out.ChunkSize = out.MaxRecords
	}
	return out
}

// projectColumns is the SELECT list matching scanProject's field order.
const projectColumns = `project_id, project_name, project_detail, winner,
	dept_name, dept_sub_name, purchase_method_name, project_type_name,
	transaction_date, sum_price_agree, price_build, province, district`

// CountProjects returns the exact number of records matching the filter.
func (db *DB) CountProjects(ctx context.Context, filter *ProjectFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	whereClause, args := db.buildFilterWhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM projects WHERE %s", whereClause)

	stmt, err := db.prepareCached(ctx, query)
	if err != nil {
		metrics.RecordQueryError("count_projects")
		return 0, err
	}

	var count int
	if err := stmt.QueryRowContext(ctx, args...).Scan(&count); err != nil {
		metrics.RecordQueryError("count_projects")
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}

	metrics.ObserveQuery("count_projects", start)
	return count, nil
}

// FetchProjects retrieves every record matching the filter up to the
// configured cap, reporting the true total alongside. A fetch that fails
// partway is retried whole: partially accumulated chunks are discarded so
// a success never silently mixes data from separate attempts. After the
// retry budget is spent the error wraps ErrBackendUnavailable.
func (db *DB) FetchProjects(ctx context.Context, filter *ProjectFilter, opts *FetchOptions) (*FetchResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	bounds := opts.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= db.retryAttempts; attempt++ {
		if attempt > 1 {
			metrics.FetchRetries.Inc()
			logging.Warn().
				Int("attempt", attempt).
				Err(lastErr).
				Msg("Retrying project fetch")
			select {
			case <-time.After(db.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := db.breaker.Execute(func() (any, error) {
			return db.fetchOnce(ctx, filter, bounds)
		})
		if err == nil {
			return result.(*FetchResult), nil
		}
		lastErr = err

		// Context errors and open-breaker rejections will not heal
		// within the retry window.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, lastErr)
}

// fetchOnce runs a single complete bounded retrieval: one count query plus
// keyset-paginated chunk scans ordered by project_id.
func (db *DB) fetchOnce(ctx context.Context, filter *ProjectFilter, bounds FetchOptions) (*FetchResult, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	total, err := db.CountProjects(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := total
	truncated := false
	if total > bounds.MaxRecords {
		limit = bounds.MaxRecords
		truncated = true
	}

	projects := make([]models.Project, 0, limit)
	lastID := ""
	for len(projects) < limit {
		chunkLimit := bounds.ChunkSize
		if remaining := limit - len(projects); remaining < chunkLimit {
			chunkLimit = remaining
		}

		chunk, err := db.fetchChunk(ctx, filter, lastID, chunkLimit)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		projects = append(projects, chunk...)
		lastID = chunk[len(chunk)-1].ProjectID
	}

	if truncated {
		metrics.FetchTruncations.Inc()
		logging.Warn().
			Int("total", total).
			Int("fetched", len(projects)).
			Msg("Project fetch truncated at record cap")
	}

	metrics.ObserveQuery("fetch_projects", start)
	return &FetchResult{Projects: projects, TotalCount: total, Truncated: truncated}, nil
}

// fetchChunk retrieves one keyset page. The afterID cursor keys on the
// primary key so pagination is stable under concurrent writes.
func (db *DB) fetchChunk(ctx context.Context, filter *ProjectFilter, afterID string, limit int) ([]models.Project, error) {
	whereClauses, args := buildFilterConditions(filter, db.usePositionalParams(), 1)
	argPos := len(args) + 1

	whereClause := "1=1"
	for _, c := range whereClauses {
		whereClause += " AND " + c
	}
	if afterID != "" {
		whereClause += fmt.Sprintf(" AND project_id > %s", placeholder(db.usePositionalParams(), &argPos))
		args = append(args, afterID)
	}

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY project_id LIMIT %s`,
		projectColumns, whereClause, placeholder(db.usePositionalParams(), &argPos))
	args = append(args, limit)

	stmt, err := db.prepareCached(ctx, query)
	if err != nil {
		metrics.RecordQueryError("fetch_chunk")
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		metrics.RecordQueryError("fetch_chunk")
		return nil, fmt.Errorf("failed to query project chunk: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0, limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			metrics.RecordQueryError("fetch_chunk")
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQueryError("fetch_chunk")
		return nil, fmt.Errorf("failed to iterate project chunk: %w", err)
	}

	return projects, nil
}

// scanProject reads one projects row. transaction_date is nullable; a NULL
// scans to the zero time, which downstream analytics treat as missing.
func scanProject(rows *sql.Rows) (models.Project, error) {
	var p models.Project
	var txDate sql.NullTime
	err := rows.Scan(
		&p.ProjectID, &p.ProjectName, &p.ProjectDetail, &p.Winner,
		&p.DeptName, &p.DeptSubName, &p.PurchaseMethodName, &p.ProjectTypeName,
		&txDate, &p.SumPriceAgree, &p.PriceBuild, &p.Province, &p.District,
	)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to scan project row: %w", err)
	}
	if txDate.Valid {
		p.TransactionDate = txDate.Time
	}
	return p, nil
}
