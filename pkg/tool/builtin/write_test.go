package toolbuiltin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new_file.txt")

	res, err := (&WriteTool{}).Execute(context.Background(),
		map[string]any{"content": "Hello, World!", "filePath": path}, newTestContext(t, dir))
	require.NoError(t, err)

	data, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, "Hello, World!", string(data))
	assert.Equal(t, false, res.Metadata["exists"])
	assert.Equal(t, "new_file.txt", res.Title)
}

func TestWriteOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o644))

	res, err := (&WriteTool{}).Execute(context.Background(),
		map[string]any{"content": "new content", "filePath": path}, newTestContext(t, dir))
	require.NoError(t, err)

	data, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, "new content", string(data))
	assert.Equal(t, true, res.Metadata["exists"])
}

func TestWriteCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "c", "file.txt")

	_, err := (&WriteTool{}).Execute(context.Background(),
		map[string]any{"content": "nested content", "filePath": path}, newTestContext(t, dir))
	require.NoError(t, err)

	data, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, "nested content", string(data))
}
