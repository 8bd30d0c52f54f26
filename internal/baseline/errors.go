package baseline

import "errors"

var (
	// ErrNotFound is returned when no baseline exists for a site
	ErrNotFound = errors.New("baseline not found")
	// ErrEmptySiteID is returned when a site identifier is missing
	ErrEmptySiteID = errors.New("site identifier is required")
	// ErrInvalidSiteID is returned when a site identifier cannot name a record
	ErrInvalidSiteID = errors.New("invalid site identifier")
	// ErrUnknownDriver is returned for an unsupported backend driver
	ErrUnknownDriver = errors.New("unknown baseline driver")
	// ErrMissingDSN is returned when a driver needs a connection string that was not configured
	ErrMissingDSN = errors.New("baseline driver requires a dsn")
	// ErrOpenFailed is returned when a backend cannot be opened
	ErrOpenFailed = errors.New("failed to open baseline backend")
	// ErrReadFailed is returned when a backend read fails
	ErrReadFailed = errors.New("failed to read baseline")
	// ErrWriteFailed is returned when a backend write fails
	ErrWriteFailed = errors.New("failed to write baseline")
	// ErrCatalogRead is returned when the catalog table cannot be read
	ErrCatalogRead = errors.New("failed to read baseline catalog")
	// ErrCatalogParse is returned when the catalog table is malformed
	ErrCatalogParse = errors.New("failed to parse baseline catalog")
	// ErrNotInCatalog is returned when the catalog has no entry for a site
	ErrNotInCatalog = errors.New("site not in baseline catalog")
)
