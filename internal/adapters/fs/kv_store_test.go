package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

func newTestKVStore(t *testing.T) *KVStoreAdapter {
	t.Helper()
	return NewKVStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})
}

func TestKVStore_GetMissing(t *testing.T) {
	store := newTestKVStore(t)

	_, err := store.Get(context.Background(), "deployments/history")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKVStore_SetGetDelete(t *testing.T) {
	store := newTestKVStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "deployments/history", []byte(`[{"id":"1"}]`)))
	assert.FileExists(t, filepath.Join(store.Root(), "deployments", "history.json"))

	data, err := store.Get(ctx, "deployments/history")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))

	require.NoError(t, store.Set(ctx, "deployments/history", []byte(`[]`)))
	data, err = store.Get(ctx, "deployments/history")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// No temp files are left behind
	entries, err := os.ReadDir(filepath.Join(store.Root(), "deployments"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, store.Delete(ctx, "deployments/history"))
	require.NoError(t, store.Delete(ctx, "deployments/history"))
	_, err = store.Get(ctx, "deployments/history")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKVStore_RejectsEscapingKeys(t *testing.T) {
	store := newTestKVStore(t)
	ctx := context.Background()

	for _, key := range []string{"", ".", "../outside", "/etc/passwd"} {
		assert.Error(t, store.Set(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestKVStore_ConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	store := NewKVStoreAdapter(&config.RuntimeConfig{
		DataDir: t.TempDir(),
		Project: &config.ProjectConfig{Storage: config.StorageConfig{Path: dir}},
	})
	assert.Equal(t, dir, store.Root())
}
