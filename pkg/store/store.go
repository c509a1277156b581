// Package store persists scored leads. It supports an embedded sqlite
// database for single-user runs and postgres for shared deployments,
// building statements through squirrel so the same queries run against
// either placeholder format.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DataFileName is the default sqlite file under the app home dir.
	DataFileName = "leads.db"

	leadTable = "lead"
)

var (
	//go:embed sql/*
	ddl embed.FS

	errStoreNotInitialized = errors.New("store not initialized")
)

// Store wraps the lead database and the statement builder matching the
// driver's placeholder format.
type Store struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
}

// Open connects to the database for the given driver and ensures the
// schema exists.
func Open(driver, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("dsn not specified")
	}

	var placeholder sq.PlaceholderFormat
	switch driver {
	case DriverSQLite:
		placeholder = sq.Question
	case DriverPostgres:
		placeholder = sq.Dollar
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	s := &Store{
		db:     db,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
	}

	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	b, err := ddl.ReadFile(fmt.Sprintf("sql/%s.sql", s.driver))
	if err != nil {
		return fmt.Errorf("failed to read the schema file for %s: %w", s.driver, err)
	}

	slog.Debug("ensuring db schema", "driver", s.driver)
	if _, err := s.db.Exec(string(b)); err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}

	return nil
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	if s == nil {
		return ""
	}
	return s.driver
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}
	return s.db.Ping()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func rollbackTransaction(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		slog.Error("failed to rollback transaction", "error", err)
	}
}
