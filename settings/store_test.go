package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yllada/wm-properties/common"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "settings.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStores_GetSetUnset(t *testing.T) {
	stores := map[string]common.SettingsStore{
		"sqlite": openTestStore(t),
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.GetString(common.SettingsKeyCurrent)
			require.NoError(t, err)
			assert.False(t, ok, "unset key should be reported missing")

			require.NoError(t, store.SetString(common.SettingsKeyCurrent, "metacity"))
			require.NoError(t, store.SetString(common.SettingsKeyCurrent, "sawfish"))

			got, ok, err := store.GetString(common.SettingsKeyCurrent)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "sawfish", got)

			require.NoError(t, store.Unset(common.SettingsKeyCurrent))
			require.NoError(t, store.Unset(common.SettingsKeyCurrent))
			_, ok, err = store.GetString(common.SettingsKeyCurrent)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SetString(common.SettingsKeyDefault, "twm"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.GetString(common.SettingsKeyDefault)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "twm", got)
}

func TestHistory(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Record("Metacity", "Sawfish", "success")
	require.NoError(t, err)
	second, err := store.Record("Sawfish", "Broken", "new-did-not-start")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := store.History(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest record first")
	assert.Equal(t, "Broken", all[0].To)

	limited, err := store.History(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID)
}
