package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Registers the "sqlite" database/sql driver
)

// SQLite keeps records in a local sqlite file, the on-disk counterpart of browser local storage.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at dbPath and applies migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite allows a single writer

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const (
	sqliteGet    = `SELECT kv_value FROM kv_entries WHERE kv_key = ?`
	sqliteDelete = `DELETE FROM kv_entries WHERE kv_key = ?`
	sqliteUpsert = `INSERT INTO kv_entries (kv_key, kv_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(kv_key) DO UPDATE SET kv_value = excluded.kv_value, updated_at = excluded.updated_at`
)

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func sqliteRead(ctx context.Context, q queryer, key string) (string, bool, error) {
	var v string
	err := q.QueryRowContext(ctx, sqliteGet, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", key, err)
	}
	return v, true, nil
}

func sqliteWrite(ctx context.Context, q queryer, key, value string) error {
	if _, err := q.ExecContext(ctx, sqliteUpsert, key, value, time.Now().UTC()); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	return sqliteRead(ctx, s.db, key)
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	return sqliteWrite(ctx, s.db, key, value)
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, sqliteDelete, key); err != nil {
		return unavailable("remove", key, err)
	}
	return nil
}

// Update reads and rewrites key inside one transaction.
func (s *SQLite) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("update", key, err)
	}
	defer tx.Rollback() // No-op after commit

	current, ok, err := sqliteRead(ctx, tx, key)
	if err != nil {
		return err
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	if err := sqliteWrite(ctx, tx, key, next); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailable("update", key, err)
	}
	return nil
}
