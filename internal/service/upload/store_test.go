package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRejectsNonPDFExtension(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("notes.txt", strings.NewReader("plain text"))
	assert.True(t, errors.Is(err, ErrNotPDF))
}

func TestSaveRemovesInvalidPDF(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	_, err = store.Save("fake.pdf", strings.NewReader("not a pdf at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPDF))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected upload must not be left on disk")
}

func TestSaveKeepsValidatedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)
	// Stub the structural check; pdfcpu is exercised against real documents,
	// not hand-built fixtures.
	store.validate = func(string) error { return nil }

	path, err := store.Save("paper.pdf", strings.NewReader("%PDF-1.4 stub"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-paper.pdf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 stub", string(data))
}

func TestSaveUniqueNames(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	store.validate = func(string) error { return nil }

	first, err := store.Save("paper.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save("paper.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
