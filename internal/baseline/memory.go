package baseline

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process backend
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemory returns an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record), now: time.Now}
}

// Get returns the record for siteID
func (m *Memory) Get(_ context.Context, siteID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[siteID]
	if !ok {
		return Record{}, ErrNotFound
	}

	return rec, nil
}

// Put overwrites the record for siteID
func (m *Memory) Put(_ context.Context, siteID, text string) error {
	if err := validateSiteID(siteID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[siteID] = Record{SiteID: siteID, Text: text, UpdatedAt: m.now().UTC()}

	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
