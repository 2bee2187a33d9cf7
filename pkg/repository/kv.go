package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
)

// KVRepository stores opaque string values by key
type KVRepository struct {
	db *sqlx.DB
}

// NewKVRepository creates a new key/value repository
func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get retrieves a value by key, found is false if the key doesn't exist
func (r *KVRepository) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = r.db.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get value: %w", err)
	}
	return value, true, nil
}

// Put stores a value, replacing the existing one
func (r *KVRepository) Put(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	return r.withRetry(ctx, func() error {
		if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
			if busy(err) {
				return err // retry
			}
			return &retryStopper{err: fmt.Errorf("put value: %w", err)}
		}
		return nil
	})
}

// Delete removes a key, missing keys are not an error
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	return r.withRetry(ctx, func() error {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
			if busy(err) {
				return err // retry
			}
			return &retryStopper{err: fmt.Errorf("delete value: %w", err)}
		}
		return nil
	})
}

func (r *KVRepository) withRetry(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, fn, errCritical)
}

// errCritical is a repeater stop error, matched by any retryStopper
var errCritical = errors.New("critical database error")

// retryStopper marks an error that must not be retried
type retryStopper struct {
	err error
}

func (e *retryStopper) Error() string { return e.err.Error() }

func (e *retryStopper) Unwrap() error { return e.err }

func (e *retryStopper) Is(target error) bool { return target == errCritical }

// busy reports sqlite lock contention, the only retryable failure
func busy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked", "database table is locked"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
