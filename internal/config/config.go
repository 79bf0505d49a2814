// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Package config defines the Tenderlens application configuration and loads
// it from defaults, an optional YAML file, and environment variables, in that
// order of precedence (koanf layering).
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Fetch    FetchConfig    `koanf:"fetch"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the per-client request budget per minute for data
	// endpoints. 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
}

// DatabaseConfig holds settings for the analytics store.
//
// Driver selects the backend: "duckdb" (embedded, default) or "postgres".
// Path applies to DuckDB; DSN applies to Postgres.
type DatabaseConfig struct {
	Driver                 string `koanf:"driver"`
	Path                   string `koanf:"path"`
	DSN                    string `koanf:"dsn"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"` // 0 = use runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	// TTL is the default time-to-live for cached query results.
	TTL time.Duration `koanf:"ttl"`

	// Persistent enables the on-disk badger cache tier. When disabled the
	// cache is purely in-memory and cold after a restart.
	Persistent bool `koanf:"persistent"`

	// Dir is the badger data directory, used only when Persistent is true.
	Dir string `koanf:"dir"`
}

// FetchConfig bounds project retrieval.
type FetchConfig struct {
	// MaxRecords caps the number of rows materialized per fetch. The true
	// match count is always reported separately.
	MaxRecords int `koanf:"max_records"`

	// ChunkSize is the keyset pagination page size used within one fetch.
	ChunkSize int `koanf:"chunk_size"`

	// RetryAttempts is the number of whole-fetch attempts on transient
	// backend failure.
	RetryAttempts int `koanf:"retry_attempts"`

	// RetryDelay is the fixed delay between attempts.
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8712,
			Timeout:   30 * time.Second,
			RateLimit: 300,
		},
		Database: DatabaseConfig{
			Driver:                 "duckdb",
			Path:                   "/data/tenderlens.duckdb",
			DSN:                    "",
			MaxMemory:              "2GB",
			Threads:                0,    // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true, // DuckDB default
		},
		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			Persistent: false,
			Dir:        "/data/tenderlens-cache",
		},
		Fetch: FetchConfig{
			MaxRecords:    50000,
			ChunkSize:     5000,
			RetryAttempts: 3,
			RetryDelay:    2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns a configuration populated with the production defaults,
// before any file or environment overrides.
func Default() *Config {
	return defaultConfig()
}

// Validate checks the configuration for inconsistencies that would only
// surface later as confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	switch strings.ToLower(c.Database.Driver) {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the duckdb driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be duckdb or postgres, got %q", c.Database.Driver)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.Persistent && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required when cache.persistent is true")
	}

	if c.Fetch.MaxRecords <= 0 {
		return fmt.Errorf("fetch.max_records must be positive, got %d", c.Fetch.MaxRecords)
	}
	if c.Fetch.ChunkSize <= 0 {
		return fmt.Errorf("fetch.chunk_size must be positive, got %d", c.Fetch.ChunkSize)
	}
	if c.Fetch.ChunkSize > c.Fetch.MaxRecords {
		return fmt.Errorf("fetch.chunk_size (%d) must not exceed fetch.max_records (%d)",
			c.Fetch.ChunkSize, c.Fetch.MaxRecords)
	}
	if c.Fetch.RetryAttempts < 1 {
		return fmt.Errorf("fetch.retry_attempts must be at least 1, got %d", c.Fetch.RetryAttempts)
	}

	return nil
}
