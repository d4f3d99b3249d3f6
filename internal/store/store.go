// Package store keeps todos in an embedded SQLite database named todoDB.
//
// The layout is declared once in TodoSchema and applied by Open. Everything
// after that is a thin pass-through to the engine: errors from SQLite are
// returned as-is, and ErrNotFound is the only error this package defines.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no todo has the requested id.
var ErrNotFound = errors.New("not found")

const fileExt = ".sqlite"

// Options configure Open.
type Options struct {
	// Dir holds the database file. Created when missing.
	Dir string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store is an opened todoDB. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	schema Schema
	path   string
	logger *slog.Logger
}

// Open opens todoDB under opts.Dir, creating it at the declared schema
// version if it does not exist yet. Opening the same directory again gives
// access to the same records.
func Open(ctx context.Context, opts Options) (*Store, error) {
	return open(ctx, opts, TodoSchema)
}

func open(ctx context.Context, opts Options, schema Schema) (*Store, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store")

	if opts.Dir == "" {
		return nil, errors.New("store: empty data directory")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(opts.Dir, schema.Name+fileExt)

	dsn, err := dataSource(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:     db,
		schema: schema,
		path:   path,
		logger: logger,
	}
	if err := s.applySchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	logger.Debug("store opened", "path", path, "version", schema.Version)
	return s, nil
}

// dataSource renders path as a SQLite URI. The path is escaped so that
// '?', '#' and '%' in directory names reach the engine unchanged.
func dataSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving database path: %w", err)
	}
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(abs),
		RawQuery: url.Values{
			"_pragma": {"busy_timeout(5000)", "journal_mode(WAL)"},
		}.Encode(),
	}
	return u.String(), nil
}

// applySchema creates the declared tables on a fresh database and stamps the
// version. Only one version exists, so any other recorded version is refused.
func (s *Store) applySchema(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading version: %w", err)
	}
	want := s.schema.Version
	if current > want {
		return fmt.Errorf("database %s is at version %d, newer than %d", s.schema.Name, current, want)
	}
	if current != 0 && current < want {
		return fmt.Errorf("database %s: no upgrade from version %d to %d", s.schema.Name, current, want)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range s.schema.Tables {
		for _, stmt := range t.DDL() {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("creating %s: %w", t.Name, err)
			}
		}
	}
	if current == 0 {
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", want)); err != nil {
			return fmt.Errorf("writing version: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if current == 0 {
		s.logger.Info("created database", "name", s.schema.Name, "version", want)
	}
	return nil
}

// Name is the fixed database name.
func (s *Store) Name() string { return s.schema.Name }

// Version is the declared schema version.
func (s *Store) Version() int { return s.schema.Version }

// Path is the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
