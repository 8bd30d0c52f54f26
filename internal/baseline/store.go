package baseline

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Store is the baseline boundary used by audits: reads never fail, they fall
// back to the bundled catalog and report absence on any error
type Store struct {
	backend     Backend
	catalogPath string
	catalogDir  string
}

// StoreOption configures the Store
type StoreOption func(*Store)

// WithCatalog enables fallback to the catalog table at path with documents in dir
func WithCatalog(path, dir string) StoreOption {
	return func(s *Store) {
		if path != "" {
			s.catalogPath = path
			s.catalogDir = dir
		}
	}
}

// NewStore wraps backend; a nil backend is replaced with an in-memory one
func NewStore(backend Backend, opts ...StoreOption) *Store {
	if backend == nil {
		backend = NewMemory()
	}

	s := &Store{backend: backend}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Catalog reads the catalog table afresh so edits apply to the next audit;
// it returns nil when no catalog is configured or it cannot be read
func (s *Store) Catalog() *Catalog {
	if s.catalogPath == "" {
		return nil
	}

	catalog, err := LoadCatalog(s.catalogPath, s.catalogDir)
	if err != nil {
		log.Warn().Err(err).Str("path", s.catalogPath).Msg("baseline catalog unavailable")
		return nil
	}

	return catalog
}

// Load returns the stored baseline for siteID, then the catalog document;
// false means no baseline is available
func (s *Store) Load(ctx context.Context, siteID string) (string, bool) {
	rec, err := s.backend.Get(ctx, siteID)

	switch {
	case err == nil:
		return rec.Text, true
	case !errors.Is(err, ErrNotFound):
		log.Warn().Err(err).Str("site", siteID).Msg("failed to read stored baseline")
	}

	catalog := s.Catalog()
	if catalog == nil {
		return "", false
	}

	if _, ok := catalog.Lookup(siteID); !ok {
		log.Debug().Str("site", siteID).Msg("site not covered by baseline catalog")
		return "", false
	}

	text, err := catalog.Document(siteID)
	if err != nil {
		log.Warn().Err(err).Str("site", siteID).Msg("failed to read catalog baseline")
		return "", false
	}

	return text, true
}

// Record returns the persisted record for siteID without catalog fallback
func (s *Store) Record(ctx context.Context, siteID string) (Record, error) {
	return s.backend.Get(ctx, siteID)
}

// Save overwrites the baseline for siteID
func (s *Store) Save(ctx context.Context, siteID, text string) error {
	return s.backend.Put(ctx, siteID, text)
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}
