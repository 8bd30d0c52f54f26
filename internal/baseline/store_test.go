package baseline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (Record, error) {
	return Record{}, errors.New("connection reset")
}

func (failingBackend) Put(context.Context, string, string) error {
	return ErrWriteFailed
}

func (failingBackend) Close() error { return nil }

func TestStoreLoad(t *testing.T) {
	ctx := context.Background()
	path := writeCatalog(t, `{"bundled.com": "bundled.txt", "broken.com": "missing.txt"}`, map[string]string{
		"bundled.txt": "Bundled baseline.",
	})

	s := NewStore(NewMemory(), WithCatalog(path, ""))

	_, ok := s.Load(ctx, "unknown.com")
	assert.False(t, ok)

	text, ok := s.Load(ctx, "bundled.com")
	require.True(t, ok)
	assert.Equal(t, "Bundled baseline.", text)

	_, ok = s.Load(ctx, "broken.com")
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "bundled.com", "Saved baseline."))

	text, ok = s.Load(ctx, "bundled.com")
	require.True(t, ok)
	assert.Equal(t, "Saved baseline.", text)

	rec, err := s.Record(ctx, "bundled.com")
	require.NoError(t, err)
	assert.Equal(t, "Saved baseline.", rec.Text)
}

func TestStoreCatalogReloadedPerCall(t *testing.T) {
	ctx := context.Background()
	path := writeCatalog(t, `{}`, map[string]string{"late.txt": "Late addition."})

	s := NewStore(nil, WithCatalog(path, ""))

	_, ok := s.Load(ctx, "late.com")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte(`{"late.com": "late.txt"}`), 0o600))

	text, ok := s.Load(ctx, "late.com")
	require.True(t, ok)
	assert.Equal(t, "Late addition.", text)
}

func TestStoreToleratesFailures(t *testing.T) {
	ctx := context.Background()

	s := NewStore(failingBackend{}, WithCatalog(filepath.Join(t.TempDir(), "absent.json"), ""))

	_, ok := s.Load(ctx, "example.com")
	assert.False(t, ok)
	assert.Nil(t, s.Catalog())
	assert.ErrorIs(t, s.Save(ctx, "example.com", "text"), ErrWriteFailed)
	assert.NoError(t, s.Close())
}
