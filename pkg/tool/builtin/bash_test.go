package toolbuiltin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarlinkco/opentool/internal/agenterr"
)

func TestBashEcho(t *testing.T) {
	dir := t.TempDir()

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "echo 'hello world'"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Contains(t, res.Output, "hello world")
	assert.Equal(t, 0, res.Metadata["exitCode"])
	assert.Equal(t, "echo 'hello world'", res.Metadata["command"])
}

func TestBashWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("content"), 0o644))

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "ls"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Contains(t, res.Output, "test.txt")
}

func TestBashExitCode(t *testing.T) {
	dir := t.TempDir()

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "exit 42"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Equal(t, 42, res.Metadata["exitCode"])
	assert.Contains(t, res.Output, "(exit code: 42)")
}

func TestBashStderr(t *testing.T) {
	dir := t.TempDir()

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "echo out; echo 'error message' >&2"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Contains(t, res.Output, "out")
	assert.Contains(t, res.Output, "--- stderr ---")
	assert.Contains(t, res.Output, "error message")
}

func TestBashTruncatesLongOutput(t *testing.T) {
	dir := t.TempDir()

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "head -c 40000 /dev/zero | tr '\\0' 'a'"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Contains(t, res.Output, "... (output truncated)")
	assert.LessOrEqual(t, len(res.Output), 30_000+len("\n... (output truncated)"))
}

func TestBashTimeout(t *testing.T) {
	dir := t.TempDir()

	_, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "sleep 5", "timeout": float64(200)}, newTestContext(t, dir))

	var ae *agenterr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, agenterr.KindToolExecution, ae.Kind())
	assert.Contains(t, ae.Error(), "Command timed out after 200ms")
}

func TestBashContextTimeout(t *testing.T) {
	dir := t.TempDir()
	tc := newTestContext(t, dir)
	tc.Extra = map[string]any{TimeoutExtraKey: 200}

	_, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "sleep 5"}, tc)

	var ae *agenterr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, agenterr.KindToolExecution, ae.Kind())
	assert.Contains(t, ae.Error(), "Command timed out after 200ms")
}

func TestBashParamTimeoutBeatsContext(t *testing.T) {
	dir := t.TempDir()
	tc := newTestContext(t, dir)
	tc.Extra = map[string]any{TimeoutExtraKey: 50}

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "sleep 0.3; echo done", "timeout": float64(5000)}, tc)
	require.NoError(t, err)
	assert.Equal(t, "done\n", res.Output)
}

func TestBashTitle(t *testing.T) {
	dir := t.TempDir()

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "echo a b c d e"}, newTestContext(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "echo a b", res.Title)

	res, err = (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "true", "description": "Do nothing"}, newTestContext(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "Do nothing", res.Title)
}

func TestBashStdoutOnlyHasNoStderrMarker(t *testing.T) {
	dir := t.TempDir()

	res, err := (&BashTool{}).Execute(context.Background(),
		map[string]any{"command": "printf clean"}, newTestContext(t, dir))
	require.NoError(t, err)

	assert.Equal(t, "clean", res.Output)
	assert.False(t, strings.Contains(res.Output, "stderr"))
}
