package baseline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one catalog row
type Entry struct {
	// File is the baseline document name relative to the catalog directory
	File string `yaml:"file" json:"file"`
	// URL optionally names the page holding the site's terms
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
}

// UnmarshalYAML accepts either a bare filename or a mapping
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.File = node.Value
		return nil
	}

	type plain Entry

	return node.Decode((*plain)(e))
}

// Catalog is the externally maintained table of known sites and their
// bundled baseline documents
type Catalog struct {
	dir     string
	entries map[string]Entry
}

// LoadCatalog reads the table at path; JSON tables are valid YAML. Documents
// are resolved relative to dir, or to the table's directory when dir is empty
func LoadCatalog(path, dir string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}

	entries := map[string]Entry{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogParse, err)
	}

	if dir == "" {
		dir = filepath.Dir(path)
	}

	normalized := make(map[string]Entry, len(entries))
	for site, entry := range entries {
		normalized[strings.ToLower(strings.TrimSpace(site))] = entry
	}

	return &Catalog{dir: dir, entries: normalized}, nil
}

// Len returns the number of catalogued sites
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.entries)
}

// Lookup returns the catalog entry for siteID
func (c *Catalog) Lookup(siteID string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}

	entry, ok := c.entries[siteID]

	return entry, ok
}

// Document reads the bundled baseline text for siteID
func (c *Catalog) Document(siteID string) (string, error) {
	entry, ok := c.Lookup(siteID)
	if !ok || entry.File == "" {
		return "", fmt.Errorf("%w: %s", ErrNotInCatalog, siteID)
	}

	name := filepath.Clean(entry.File)
	if filepath.IsAbs(name) || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSiteID, entry.File)
	}

	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotInCatalog, entry.File)
		}

		return "", fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}

	return string(data), nil
}
