package baseline

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Driver names a baseline backend implementation
type Driver string

const (
	// DriverMemory keeps baselines in process memory
	DriverMemory Driver = "memory"
	// DriverFile keeps one file per site in a directory
	DriverFile Driver = "file"
	// DriverSQLite keeps baselines in a SQLite database
	DriverSQLite Driver = "sqlite"
	// DriverPostgres keeps baselines in PostgreSQL
	DriverPostgres Driver = "postgres"
	// DriverRedis keeps baselines in Redis
	DriverRedis Driver = "redis"
)

// Record is the persisted baseline for one site
type Record struct {
	// SiteID is the normalized hostname
	SiteID string `json:"site_id"`
	// Text is the extracted policy text at the last successful audit
	Text string `json:"text"`
	// UpdatedAt is when the record was last written
	UpdatedAt time.Time `json:"updated_at"`
}

// Backend persists baseline records. Put overwrites any existing record
type Backend interface {
	// Get returns the record for siteID or ErrNotFound
	Get(ctx context.Context, siteID string) (Record, error)
	// Put stores text as the baseline for siteID
	Put(ctx context.Context, siteID, text string) error
	// Close releases backend resources
	Close() error
}

// Options selects and configures a backend
type Options struct {
	// Driver selects the backend
	Driver Driver
	// DSN is the connection string for sqlite, postgres and redis
	DSN string
	// Dir is the directory for the file driver
	Dir string
}

// Open returns the backend named by opts.Driver
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch Driver(strings.ToLower(string(opts.Driver))) {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverFile:
		return NewFile(opts.Dir)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.DSN)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	case DriverRedis:
		return OpenRedis(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, opts.Driver)
	}
}

func validateSiteID(siteID string) error {
	if strings.TrimSpace(siteID) == "" {
		return ErrEmptySiteID
	}

	return nil
}
