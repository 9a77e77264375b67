package cache_test

import (
	"path/filepath"
	"testing"

	"codeberg.org/mutker/waybarmon/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) cache.Store {
	t.Helper()
	store, err := cache.NewStore(cache.Config{
		Enabled: true,
		DBPath:  filepath.Join(t.TempDir(), "last.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestLoadMissingMonitor(t *testing.T) {
	store := openStore(t)

	payload, takenAt, err := store.Load("netio")
	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.True(t, takenAt.IsZero())
}

func TestSaveThenLoad(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Save("netio", []byte(`{"sent":10}`)))

	payload, takenAt, err := store.Load("netio")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sent":10}`, string(payload))
	assert.False(t, takenAt.IsZero())
}

func TestSaveReplacesSnapshot(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Save("io", []byte(`{"n":1}`)))
	require.NoError(t, store.Save("io", []byte(`{"n":2}`)))

	payload, _, err := store.Load("io")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(payload))
}

func TestDisabledStoreIsNoop(t *testing.T) {
	store, err := cache.NewStore(cache.Config{Enabled: false})
	require.NoError(t, err)

	require.NoError(t, store.Save("io", []byte("x")))
	payload, _, err := store.Load("io")
	require.NoError(t, err)
	assert.Nil(t, payload)
	require.NoError(t, store.Close())
}

func TestEmptyPathRejected(t *testing.T) {
	_, err := cache.NewStore(cache.Config{Enabled: true})
	require.Error(t, err)
}
