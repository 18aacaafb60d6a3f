package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
)

type storeFactory func(t *testing.T) Store

func sqliteFactory(t *testing.T) Store {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "dreams.db"))
	require.NoError(t, err)
	return s
}

func diskFactory(t *testing.T) Store {
	s, err := OpenDisk(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	return s
}

func memFactory(*testing.T) Store {
	return NewMemStore()
}

// runForAllStores runs fn against every backend.
func runForAllStores(t *testing.T, fn func(t *testing.T, s Store)) {
	factories := map[string]storeFactory{
		"sqlite": sqliteFactory,
		"diskv":  diskFactory,
		"memory": memFactory,
	}
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			fn(t, s)
		})
	}
}

func sample(id, title string) dream.Dream {
	return dream.Dream{
		ID:         id,
		Title:      title,
		Content:    "content of " + title,
		Tags:       []string{"flying"},
		DreamSigns: []string{},
		Timestamp:  "2025-01-02T03:04:05Z",
	}
}

func TestLoadEmpty(t *testing.T) {
	runForAllStores(t, func(t *testing.T, s Store) {
		dreams, err := s.LoadDreams(context.Background())
		require.NoError(t, err)
		assert.Empty(t, dreams)
	})
}

func TestSaveAndLoadPreservesOrder(t *testing.T) {
	runForAllStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		in := []dream.Dream{sample("b", "second"), sample("a", "first"), sample("c", "third")}
		in[1].IsLucid = true
		in[2].Emotions = "calm"
		require.NoError(t, s.SaveDreams(ctx, in))

		out, err := s.LoadDreams(ctx)
		require.NoError(t, err)
		assert.Equal(t, in, out)

		require.NoError(t, s.SaveDreams(ctx, in[:1]))
		out, err = s.LoadDreams(ctx)
		require.NoError(t, err)
		assert.Equal(t, in[:1], out)
	})
}

func TestSuggestionsRoundTrip(t *testing.T) {
	runForAllStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.SaveSuggestions(ctx, "tags", []string{"flying", "water"}))
		require.NoError(t, s.SaveSuggestions(ctx, "dreamSigns", []string{"teeth"}))

		tags, err := s.LoadSuggestions(ctx, "tags")
		require.NoError(t, err)
		assert.Equal(t, []string{"flying", "water"}, tags)

		missing, err := s.LoadSuggestions(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, missing)
	})
}

func TestSQLiteFastPath(t *testing.T) {
	s := sqliteFactory(t).(*SQLiteStore)
	defer s.Close()
	ctx := context.Background()

	require.True(t, s.Available())
	require.NoError(t, s.AddDream(ctx, sample("1", "one")))
	require.NoError(t, s.AddDream(ctx, sample("2", "two")))

	updated := sample("1", "one edited")
	updated.LastModified = "2025-02-01T00:00:00Z"
	require.NoError(t, s.UpdateDream(ctx, updated))
	require.ErrorIs(t, s.UpdateDream(ctx, sample("nope", "x")), dream.ErrNotFound)

	require.NoError(t, s.DeleteDream(ctx, "2"))
	require.ErrorIs(t, s.DeleteDream(ctx, "2"), dream.ErrNotFound)

	out, err := s.LoadDreams(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "one edited", out[0].Title)
	assert.Equal(t, "2025-02-01T00:00:00Z", out[0].LastModified)

	require.NoError(t, s.Close())
	assert.False(t, s.Available())
	require.ErrorIs(t, s.AddDream(ctx, sample("3", "three")), ErrUnavailable)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dreams.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.AddDream(context.Background(), sample("x", "kept")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	out, err := s.LoadDreams(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "kept", out[0].Title)
}

func TestOpenFallsBack(t *testing.T) {
	ctx := context.Background()
	log := logging.Discard()

	s := Open(ctx, Options{DBPath: filepath.Join(t.TempDir(), "a.db")}, log)
	assert.Equal(t, "sqlite", s.Name())
	s.Close()

	s = Open(ctx, Options{StoreDir: filepath.Join(t.TempDir(), "kv")}, log)
	assert.Equal(t, "diskv", s.Name())

	s = Open(ctx, Options{}, log)
	assert.Equal(t, "memory", s.Name())
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:", sqliteDSN("file::memory:"))
	dsn := sqliteDSN("/tmp/dreams.db")
	assert.Contains(t, dsn, "file:///tmp/dreams.db")
	assert.Contains(t, dsn, "mode=rwc")
}
