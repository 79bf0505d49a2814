// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Package database provides access to the project-award analytics store.
// Two backends share one wrapper: embedded DuckDB (default) and PostgreSQL,
// selected by configuration. All query text is built through the shared
// filter translation in filter.go so the two dialects differ only in
// placeholder style.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"
	"github.com/sony/gobreaker/v2"

	"github.com/tenderlens/tenderlens/internal/config"
	"github.com/tenderlens/tenderlens/internal/logging"
)

// Supported driver names.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DB wraps the analytics store connection and provides data access methods.
type DB struct {
	conn   *sql.DB
	driver string
	cfg    *config.DatabaseConfig

	// queryTimeout bounds every backend call without an explicit deadline.
	queryTimeout time.Duration

	// retry policy for whole-fetch attempts on transient failure
	retryAttempts int
	retryDelay    time.Duration

	// breaker opens after repeated backend failures so retry loops stop
	// hammering a store that is down.
	breaker *gobreaker.CircuitBreaker[any]

	// Prepared statement caching
	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex
}

// Option adjusts DB construction.
type Option func(*DB)

// WithQueryTimeout sets the default per-query timeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(db *DB) { db.queryTimeout = d }
}

// WithRetryPolicy sets the whole-fetch retry budget and fixed delay.
func WithRetryPolicy(attempts int, delay time.Duration) Option {
	return func(db *DB) {
		if attempts > 0 {
			db.retryAttempts = attempts
		}
		db.retryDelay = delay
	}
}

// New opens the analytics store and initializes the schema.
func New(cfg *config.DatabaseConfig, opts ...Option) (*DB, error) {
	db := &DB{
		driver:        cfg.Driver,
		cfg:           cfg,
		queryTimeout:  30 * time.Second,
		retryAttempts: 3,
		retryDelay:    2 * time.Second,
		stmtCache:     make(map[string]*sql.Stmt),
	}
	for _, opt := range opts {
		opt(db)
	}

	var (
		conn *sql.DB
		err  error
	)
	switch cfg.Driver {
	case DriverPostgres:
		conn, err = sql.Open("postgres", cfg.DSN)
	case DriverDuckDB, "":
		db.driver = DriverDuckDB
		conn, err = openDuckDB(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.conn = conn

	db.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: "analytics-store",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Analytics store circuit breaker state change")
		},
	})

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("driver", db.driver).
		Msg("Analytics store opened")

	return db, nil
}

// openDuckDB builds the DuckDB connection string with tuning options and
// opens the embedded database.
func openDuckDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for the database file
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "2GB"
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s",
		cfg.Path, numThreads, maxMemory, preserveOrder)

	return sql.Open("duckdb", connStr)
}

// initSchema creates the projects table when it does not exist. The DDL is
// dialect-neutral: DuckDB accepts the PostgreSQL type names used here.
func (db *DB) initSchema() error {
	ctx, cancel := db.ensureContext(context.Background())
	defer cancel()

	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		project_id           TEXT PRIMARY KEY,
		project_name         TEXT NOT NULL,
		project_detail       TEXT NOT NULL DEFAULT '',
		winner               TEXT NOT NULL DEFAULT '',
		dept_name            TEXT NOT NULL DEFAULT '',
		dept_sub_name        TEXT NOT NULL DEFAULT '',
		purchase_method_name TEXT NOT NULL DEFAULT '',
		project_type_name    TEXT NOT NULL DEFAULT '',
		transaction_date     TIMESTAMP,
		sum_price_agree      DOUBLE PRECISION NOT NULL DEFAULT 0,
		price_build          DOUBLE PRECISION NOT NULL DEFAULT 0,
		province             TEXT NOT NULL DEFAULT '',
		district             TEXT NOT NULL DEFAULT ''
	)`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}

	// Supporting indexes for the common filter dimensions. Postgres needs
	// them; DuckDB ignores redundant ones cheaply.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_projects_date ON projects (transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_winner ON projects (winner)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_dept ON projects (dept_name)`,
	}
	for _, stmt := range indexes {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// usePositionalParams reports whether the dialect requires $N placeholders.
func (db *DB) usePositionalParams() bool {
	return db.driver == DriverPostgres
}

// ensureContext guarantees a deadline on backend calls so a stalled store
// surfaces as a timeout instead of blocking the interaction indefinitely.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), db.queryTimeout)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, db.queryTimeout)
	}
	return ctx, func() {}
}

// prepareCached returns a cached prepared statement for the query,
// preparing and caching it on first use. Double-checked locking keeps the
// fast path on the read lock.
func (db *DB) prepareCached(ctx context.Context, query string) (*sql.Stmt, error) {
	db.stmtCacheMu.RLock()
	stmt, ok := db.stmtCache[query]
	db.stmtCacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	db.stmtCacheMu.Lock()
	defer db.stmtCacheMu.Unlock()
	if stmt, ok := db.stmtCache[query]; ok {
		return stmt, nil
	}

	stmt, err := db.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	db.stmtCache[query] = stmt
	return stmt, nil
}

// Ping verifies the backend connection.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close releases prepared statements and the underlying connection.
func (db *DB) Close() error {
	db.stmtCacheMu.Lock()
	for _, stmt := range db.stmtCache {
		stmt.Close()
	}
	db.stmtCache = make(map[string]*sql.Stmt)
	db.stmtCacheMu.Unlock()

	return db.conn.Close()
}
