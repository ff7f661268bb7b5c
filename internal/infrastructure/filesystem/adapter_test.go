package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_SizeAndRemove(t *testing.T) {
	ctx := context.Background()
	fs := New()
	root := t.TempDir()

	require.NoError(t, fs.WriteFile(ctx, filepath.Join(root, "a", "one.bin"), make([]byte, 10)))
	require.NoError(t, fs.WriteFile(ctx, filepath.Join(root, "a", "b", "two.bin"), make([]byte, 32)))

	size, err := fs.GetSize(ctx, filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), size)

	isDir, err := fs.IsDirectory(ctx, filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.True(t, isDir)

	require.NoError(t, fs.RemoveAll(ctx, filepath.Join(root, "a")))
	exists, err := fs.Exists(ctx, filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.False(t, exists)

	size, err = fs.GetSize(ctx, filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestAdapter_WriteFileReplaces(t *testing.T) {
	ctx := context.Background()
	fs := New()
	path := filepath.Join(t.TempDir(), "icon.png")

	require.NoError(t, fs.WriteFile(ctx, path, []byte("old")))
	require.NoError(t, fs.WriteFile(ctx, path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
