package toolbuiltin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobMatchesExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"file1.txt", "file2.txt", "file3.go"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content"), 0o644))
	}

	res, err := (&GlobTool{}).Execute(context.Background(),
		map[string]any{"pattern": "*.txt"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Contains(t, res.Output, "file1.txt")
	assert.Contains(t, res.Output, "file2.txt")
	assert.NotContains(t, res.Output, "file3.go")
	assert.Equal(t, 2, res.Metadata["count"])
	assert.Equal(t, "*.txt", res.Title)
}

func TestGlobSortsByModTime(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.txt")
	newer := filepath.Join(dir, "newer.txt")
	require.NoError(t, os.WriteFile(older, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("b"), 0o644))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))

	res, err := (&GlobTool{}).Execute(context.Background(),
		map[string]any{"pattern": "*.txt"}, newTestContext(t, dir))
	require.NoError(t, err)

	lines := strings.Split(res.Output, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "newer.txt", lines[0])
	assert.Equal(t, "older.txt", lines[1])
}

func TestGlobSubdirectoryPattern(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.txt"), []byte("x"), 0o644))

	res, err := (&GlobTool{}).Execute(context.Background(),
		map[string]any{"pattern": "src/*.txt"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Contains(t, res.Output, filepath.Join("src", "nested.txt"))
	assert.NotContains(t, res.Output, "root.txt")
}

func TestGlobNoMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))

	res, err := (&GlobTool{}).Execute(context.Background(),
		map[string]any{"pattern": "*.go"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Empty(t, res.Output)
	assert.Equal(t, 0, res.Metadata["count"])
}

func TestGlobInvalidPattern(t *testing.T) {
	dir := t.TempDir()

	_, err := (&GlobTool{}).Execute(context.Background(),
		map[string]any{"pattern": "[unclosed"}, newTestContext(t, dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid pattern")
}
