package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/wongpratan/abquery/internal/dialect"
)

// Config selects the backend.
type Config struct {
	// Dialect is a dialect name accepted by dialect.Lookup.
	Dialect string
	// DSN is passed to the driver. For SQLite it is a file path or
	// ":memory:".
	DSN string
}

// Store runs queries for one database.
type Store struct {
	db      *sqlx.DB
	dialect dialect.Dialect
}

// Open connects to the database described by cfg and verifies the
// connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("dsn is required for %s", d.Name())
	}

	dsn := cfg.DSN
	if d.Name() == "mysql" {
		parsed, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		dsn = parsed.FormatDSN()
	}

	db, err := sqlx.ConnectContext(ctx, d.Driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.Name(), err)
	}

	if d.Name() == "sqlite" {
		// SQLite only supports one writer at a time, and every connection
		// to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return &Store{db: db, dialect: d}, nil
}

// New wraps an existing connection.
func New(db *sqlx.DB, d dialect.Dialect) *Store {
	return &Store{db: db, dialect: d}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying connection.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect returns the dialect of the connected backend.
func (s *Store) Dialect() dialect.Dialect {
	return s.dialect
}

// Exec runs each statement in order, stopping at the first failure.
func (s *Store) Exec(ctx context.Context, statements ...string) error {
	for i, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
