package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mnemosyne/pkg/errors"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates and replaces", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "books.json")

		require.NoError(t, WriteFileAtomic(path, []byte("[]\n"), 0o644))
		require.NoError(t, WriteFileAtomic(path, []byte("[1]\n"), 0o644))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[1]\n", string(data))
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "books.json")
		require.NoError(t, WriteFileAtomic(path, []byte("[]"), 0o644))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "books.json", entries[0].Name())
	})

	t.Run("missing directory fails without side effects", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gone", "books.json")

		err := WriteFileAtomic(path, []byte("[]"), 0o644)
		require.Error(t, err)

		var ioErr *errors.IOError
		assert.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "create", ioErr.Operation)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, WriteJSONAtomic(path, []map[string]any{{"name": "books & films"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n    {\n        \"name\": \"books & films\"\n    }\n]\n", string(data))
}
