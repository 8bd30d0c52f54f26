package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, table string, docs map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "tos_map.json")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o600))

	for name, body := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	return path
}

func TestLoadCatalogJSON(t *testing.T) {
	path := writeCatalog(t, `{"example.com": "example.txt", "Docs.IO": "docs.txt"}`, map[string]string{
		"example.txt": "Example terms of service.",
	})

	catalog, err := LoadCatalog(path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	entry, ok := catalog.Lookup("example.com")
	require.True(t, ok)
	assert.Equal(t, "example.txt", entry.File)

	_, ok = catalog.Lookup("docs.io")
	assert.True(t, ok)

	text, err := catalog.Document("example.com")
	require.NoError(t, err)
	assert.Equal(t, "Example terms of service.", text)

	_, err = catalog.Document("docs.io")
	assert.ErrorIs(t, err, ErrNotInCatalog)

	_, err = catalog.Document("unknown.com")
	assert.ErrorIs(t, err, ErrNotInCatalog)
}

func TestLoadCatalogYAMLEntries(t *testing.T) {
	path := writeCatalog(t, `
example.com:
  file: example.txt
  url: https://example.com/legal/terms
plain.com: plain.txt
escape.com: ../../etc/passwd
`, nil)

	catalog, err := LoadCatalog(path, "")
	require.NoError(t, err)

	entry, ok := catalog.Lookup("example.com")
	require.True(t, ok)
	assert.Equal(t, Entry{File: "example.txt", URL: "https://example.com/legal/terms"}, entry)

	entry, ok = catalog.Lookup("plain.com")
	require.True(t, ok)
	assert.Equal(t, "plain.txt", entry.File)

	_, err = catalog.Document("escape.com")
	assert.ErrorIs(t, err, ErrInvalidSiteID)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.ErrorIs(t, err, ErrCatalogRead)

	path := writeCatalog(t, `[not, a, map]`, nil)
	_, err = LoadCatalog(path, "")
	assert.ErrorIs(t, err, ErrCatalogParse)

	var nilCatalog *Catalog
	_, ok := nilCatalog.Lookup("example.com")
	assert.False(t, ok)
	assert.Zero(t, nilCatalog.Len())
}
