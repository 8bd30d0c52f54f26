package baseline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// dialect holds the statements for one SQL engine
type dialect struct {
	schema string
	get    string
	put    string
}

var sqliteDialect = dialect{
	schema: `CREATE TABLE IF NOT EXISTS baselines (
		site_id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	get: `SELECT text, updated_at FROM baselines WHERE site_id = ?`,
	put: `INSERT INTO baselines (site_id, text, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (site_id) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at`,
}

var postgresDialect = dialect{
	schema: `CREATE TABLE IF NOT EXISTS baselines (
		site_id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	get: `SELECT text, updated_at FROM baselines WHERE site_id = $1`,
	put: `INSERT INTO baselines (site_id, text, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (site_id) DO UPDATE SET
			text = EXCLUDED.text,
			updated_at = EXCLUDED.updated_at`,
}

// SQL is a backend over database/sql
type SQL struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens or creates the database at path with write-ahead logging
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite", ErrMissingDSN)
	}

	dsn := path
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
		}

		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable WAL: %v", ErrOpenFailed, err)
	}

	return newSQL(ctx, db, sqliteDialect)
}

// OpenPostgres connects to PostgreSQL and ensures the schema exists
func OpenPostgres(ctx context.Context, dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres", ErrMissingDSN)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	return newSQL(ctx, db, postgresDialect)
}

func newSQL(ctx context.Context, db *sql.DB, d dialect) (*SQL, error) {
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", ErrOpenFailed, err)
	}

	return &SQL{db: db, dialect: d}, nil
}

// Get returns the record for siteID
func (s *SQL) Get(ctx context.Context, siteID string) (Record, error) {
	rec := Record{SiteID: siteID}

	err := s.db.QueryRowContext(ctx, s.dialect.get, siteID).Scan(&rec.Text, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}

		return Record{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	return rec, nil
}

// Put upserts the record for siteID
func (s *SQL) Put(ctx context.Context, siteID, text string) error {
	if err := validateSiteID(siteID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.put, siteID, text, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return nil
}

// Close closes the database
func (s *SQL) Close() error {
	return s.db.Close()
}
