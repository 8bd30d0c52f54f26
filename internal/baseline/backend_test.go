package baseline

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend runs the behavior every backend shares
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()

	ctx := context.Background()

	_, err := b.Get(ctx, "missing.com")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(ctx, "example.com", "first version"))

	rec, err := b.Get(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com", rec.SiteID)
	assert.Equal(t, "first version", rec.Text)
	assert.False(t, rec.UpdatedAt.IsZero())

	require.NoError(t, b.Put(ctx, "example.com", "second version"))

	rec, err = b.Get(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, "second version", rec.Text)

	require.NoError(t, b.Put(ctx, "empty.com", ""))

	rec, err = b.Get(ctx, "empty.com")
	require.NoError(t, err)
	assert.Equal(t, "", rec.Text)

	assert.ErrorIs(t, b.Put(ctx, "  ", "text"), ErrEmptySiteID)

	var wg sync.WaitGroup
	for _, text := range []string{"a", "b", "c", "d"} {
		wg.Add(1)

		go func(text string) {
			defer wg.Done()
			assert.NoError(t, b.Put(ctx, "race.com", text))
		}(text)
	}
	wg.Wait()

	rec, err = b.Get(ctx, "race.com")
	require.NoError(t, err)
	assert.Contains(t, []string{"a", "b", "c", "d"}, rec.Text)
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemory()
	defer b.Close() //nolint:errcheck

	exerciseBackend(t, b)
}

func TestFileBackend(t *testing.T) {
	b, err := NewFile(filepath.Join(t.TempDir(), "baselines"))
	require.NoError(t, err)

	exerciseBackend(t, b)

	_, err = b.Get(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidSiteID)

	_, err = NewFile("")
	assert.ErrorIs(t, err, ErrOpenFailed)
}

func TestSQLiteBackend(t *testing.T) {
	b, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "baselines.db"))
	require.NoError(t, err)
	defer b.Close() //nolint:errcheck

	exerciseBackend(t, b)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)

	b, err = Open(ctx, Options{Driver: "FILE", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &File{}, b)

	b, err = Open(ctx, Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "b.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQL{}, b)
	require.NoError(t, b.Close())

	_, err = Open(ctx, Options{Driver: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, Options{Driver: DriverPostgres})
	assert.ErrorIs(t, err, ErrMissingDSN)

	_, err = Open(ctx, Options{Driver: DriverRedis})
	assert.ErrorIs(t, err, ErrMissingDSN)

	_, err = Open(ctx, Options{Driver: DriverRedis, DSN: "not a url"})
	assert.ErrorIs(t, err, ErrOpenFailed)
}
