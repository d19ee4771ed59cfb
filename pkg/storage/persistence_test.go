package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

func TestStorageEngine_SaveAndLoad(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_save"+FileExtension)

	engine := NewStorageEngine()
	docs := []domain.Document{
		{"name": "Alice", "age": 30, "_v": 1},
		{"name": "Bob", "age": 25, "_v": 0},
		{"name": "Charlie", "age": 35, "_v": 2},
	}
	for _, doc := range docs {
		require.NoError(t, engine.Insert("users", doc))
	}
	require.NoError(t, engine.Insert("orders", domain.Document{"total": 12.50}))

	require.NoError(t, engine.SaveToFile(tempFile))

	fileInfo, err := os.Stat(tempFile)
	require.NoError(t, err)
	assert.Greater(t, fileInfo.Size(), int64(0))

	loaded := NewStorageEngine()
	require.NoError(t, loaded.LoadFromFile(tempFile))

	users, err := loaded.FindAll("users", nil)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	orders, err := loaded.FindAll("orders", nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	alice, err := loaded.FindAll("users", map[string]interface{}{"name": "Alice"})
	require.NoError(t, err)
	require.Len(t, alice, 1)
	// msgpack round-trips numbers as int64/float64; the version helper
	// normalizes them.
	v, ok := alice[0].Version()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestStorageEngine_LoadMissingFileIsNotAnError(t *testing.T) {
	engine := NewStorageEngine()
	err := engine.LoadFromFile(filepath.Join(t.TempDir(), "does_not_exist"+FileExtension))
	assert.NoError(t, err)
}

func TestStorageEngine_LoadRejectsForeignFile(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "not_a_store"+FileExtension)
	require.NoError(t, os.WriteFile(tempFile, []byte("definitely not GDMG data"), 0644))

	engine := NewStorageEngine()
	err := engine.LoadFromFile(tempFile)
	assert.Error(t, err)
}

func TestStorageEngine_LoadRestoresIDCounters(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "counters"+FileExtension)

	engine := NewStorageEngine()
	require.NoError(t, engine.Insert("users", domain.Document{"name": "Alice"}))
	require.NoError(t, engine.Insert("users", domain.Document{"name": "Bob"}))
	require.NoError(t, engine.SaveToFile(tempFile))

	loaded := NewStorageEngine()
	require.NoError(t, loaded.LoadFromFile(tempFile))

	// Auto-generated IDs must resume past the persisted ones, not restart
	// at 1 and collide.
	doc := domain.Document{"name": "Charlie"}
	require.NoError(t, loaded.Insert("users", doc))
	assert.Equal(t, "3", doc.ID())

	users, err := loaded.FindAll("users", nil)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestStorageEngine_DataFileResolvedAgainstDataDir(t *testing.T) {
	dir := t.TempDir()

	engine := NewStorageEngine(WithDataDir(dir), WithDataFile("store"+FileExtension))
	assert.Equal(t, filepath.Join(dir, "store"+FileExtension), engine.DataFilePath())

	require.NoError(t, engine.Insert("users", domain.Document{"name": "Alice"}))
	_, err := os.Stat(filepath.Join(dir, "store"+FileExtension))
	assert.NoError(t, err)

	abs := filepath.Join(dir, "abs"+FileExtension)
	absolute := NewStorageEngine(WithDataDir("/elsewhere"), WithDataFile(abs))
	assert.Equal(t, abs, absolute.DataFilePath())
}

func TestStorageEngine_SaveAfterTransaction(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "txn"+FileExtension)

	engine := NewStorageEngine(WithDataFile(tempFile))
	require.NoError(t, engine.Insert("users", domain.Document{"name": "Alice"}))
	require.NoError(t, engine.SaveAfterTransaction())

	_, err := os.Stat(tempFile)
	assert.NoError(t, err)

	disabled := NewStorageEngine(WithDataFile(tempFile+".off"), WithTransactionSave(false))
	require.NoError(t, disabled.Insert("users", domain.Document{"name": "Bob"}))
	require.NoError(t, disabled.SaveAfterTransaction())
	_, err = os.Stat(tempFile + ".off")
	assert.True(t, os.IsNotExist(err), "transaction saves disabled, nothing written")
}
