// Package repository keeps tubehook state in sqlite behind a small key/value table.
package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schema string

const defaultDSN = "file:tubehook.db?cache=shared&mode=rwc&_txlock=immediate"

// Config represents database configuration, zero values keep driver defaults
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories bundles the shared connection and repositories built on it
type Repositories struct {
	KV *KVRepository
	DB *sqlx.DB
}

// NewRepositories opens the database, applies pragmas and creates the kv table
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = defaultDSN
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyPool(db, cfg)

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repositories{KV: NewKVRepository(db), DB: db}, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func applyPool(db *sqlx.DB, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// prepare runs pragmas and the embedded schema. busy_timeout lets writers wait on the lock
// before repeater kicks in.
func prepare(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		schema,
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if i == len(stmts)-1 {
				return fmt.Errorf("init schema: %w", err)
			}
			return fmt.Errorf("execute %s: %w", stmt, err)
		}
	}
	return nil
}
