package baseline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// recordExt is the suffix of record files
const recordExt = ".json"

// File keeps one JSON record per site in a directory
type File struct {
	dir string
}

// NewFile creates dir when missing and returns a backend rooted there
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: file driver requires a directory", ErrOpenFailed)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	return &File{dir: dir}, nil
}

// path maps a site identifier to its record file
func (f *File) path(siteID string) (string, error) {
	if err := validateSiteID(siteID); err != nil {
		return "", err
	}

	if strings.ContainsAny(siteID, `/\`) || strings.Contains(siteID, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSiteID, siteID)
	}

	return filepath.Join(f.dir, siteID+recordExt), nil
}

// Get reads the record for siteID
func (f *File) Get(_ context.Context, siteID string) (Record, error) {
	p, err := f.path(siteID)
	if err != nil {
		return Record{}, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, ErrNotFound
		}

		return Record{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	return rec, nil
}

// Put writes the record through a temporary file and rename so readers
// never observe a partial record
func (f *File) Put(_ context.Context, siteID, text string) error {
	p, err := f.path(siteID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(Record{SiteID: siteID, Text: text, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	tmp, err := os.CreateTemp(f.dir, siteID+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return nil
}

// Close is a no-op
func (f *File) Close() error {
	return nil
}
