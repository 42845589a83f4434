package configstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startingDoc = `{"reasoning": {"name": "meta/llama-3.1-8b-instruct", "api_base": "http://localhost:8000/v1"}}`

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte(startingDoc), 0o644))
	return New(path, startingDoc), path
}

func TestSaveRejectsInvalidJSON(t *testing.T) {
	store, path := newTestStore(t)

	err := store.Save(`{"reasoning": `)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))

	// The rejected save must not touch the file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, startingDoc, string(data))
}

func TestSaveRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	edited := `{"reasoning": {"name": "meta/llama-3.1-70b-instruct", "api_base": "https://integrate.api.nvidia.com/v1"}}`
	require.NoError(t, store.Save(edited))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, edited, loaded)
}

func TestResetReturnsStartingSnapshot(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(`{"a": 1}`))
	require.NoError(t, store.Save(`{"b": 2}`))

	assert.Equal(t, startingDoc, store.Reset())
}

func TestUndoReturnsOnDiskContent(t *testing.T) {
	store, _ := newTestStore(t)

	saved := `{"saved": true}`
	require.NoError(t, store.Save(saved))
	store.MarkDirty()

	text, err := store.Undo()
	require.NoError(t, err)
	assert.Equal(t, saved, text)
	assert.Equal(t, StateClean, store.State())
}

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent.json"), "{}")
	_, err := store.Load()
	assert.Error(t, err)
}

func TestDirtyIndicatorTransitions(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Equal(t, StateClean, store.State())

	store.MarkDirty()
	assert.Equal(t, StateDirty, store.State())

	require.NoError(t, store.Save(`{}`))
	assert.Equal(t, StateClean, store.State())

	store.MarkDirty()
	store.Reset()
	assert.Equal(t, StateClean, store.State())
}

func TestSchemaValidationExtension(t *testing.T) {
	store, path := newTestStore(t)
	store.EnableSchemaValidation()

	err := store.Save(`{"reasoning": {"name": "x"}}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSchema))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, startingDoc, string(data))

	require.NoError(t, store.Save(startingDoc))
}
