/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/registry"
)

// Store wraps one embedded SQLite database file. All datastores and
// collections created from it share the underlying connection.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Registered table names become SQL table names, so they are held to
// SQL identifier rules.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens the database file at the location described by cfg.
// The directory must already exist; a missing directory surfaces as the
// engine's open error.
func Open(cfg *tablestore.Config) (*Store, error) {
	path, err := cfg.Path()
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath opens the database file at path directly.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single writer; modernc sqlite serializes writes anyway and this
	// avoids SQLITE_BUSY under concurrent datastores.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// DB exposes the underlying database handle for callers that need raw SQL.
func (s *Store) DB() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database. Operations started before
// Close fail with database/sql's closed-database error; operations
// started after it fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return errors.ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// handle returns the live database handle, or ErrClosed once Close has
// run. A handle obtained just before Close stays safe to use;
// database/sql fails calls on a closed DB instead of racing.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.ErrClosed
	}
	return s.db, nil
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	return db.Exec(query, args...)
}

func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return errors.NewValidationError("table", fmt.Sprintf("%q is not a valid table name", name))
	}
	return nil
}

// EnsureTable creates the backing SQL table for one table name if it
// does not exist yet. Rows hold the entity key and its JSON payload.
func (s *Store) EnsureTable(name string) error {
	if err := validateTableName(name); err != nil {
		return err
	}

	_, err := s.exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			k          TEXT PRIMARY KEY,
			v          TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`, name))
	return err
}

// EnsureTables creates the backing tables for every name registered in
// reg. This is the "apply pending schema changes" entry point for the
// registry-driven schema.
func (s *Store) EnsureTables(reg *registry.Registry) error {
	for _, name := range reg.Names() {
		if err := s.EnsureTable(name); err != nil {
			return fmt.Errorf("ensure table %s: %w", name, err)
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on nil and rolling
// back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
