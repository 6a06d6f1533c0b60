package toolbuiltin

import (
	"context"
	"os"
	"path/filepath"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

const writeDescription = `Writes content to a file on the local filesystem.

Usage:
- The filePath parameter must be an absolute path
- Will create parent directories if they don't exist
- Will overwrite existing files
- Returns the path to the written file`

type writeParams struct {
	Content  string `json:"content"`
	FilePath string `json:"filePath"`
}

// WriteTool writes content to a file, creating parent directories as
// needed.
type WriteTool struct{}

func (t *WriteTool) Name() string        { return "write" }
func (t *WriteTool) Description() string { return writeDescription }

func (t *WriteTool) Schema() *tool.JSONSchema {
	return &tool.JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"content":  tool.StringProp("The content to write to the file"),
			"filePath": tool.StringProp("The absolute path to the file to write (must be absolute, not relative)"),
		},
		Required: []string{"content", "filePath"},
	}
}

func (t *WriteTool) Execute(ctx context.Context, params map[string]any, tc *tool.Context) (*tool.Result, error) {
	var p writeParams
	if err := decodeParams("write", params, &p); err != nil {
		return nil, err
	}

	path := tc.Resolve(p.FilePath)
	title := tc.Display(path)

	_, statErr := os.Stat(path)
	existed := statErr == nil

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, agenterr.IO(err)
		}
	}
	if err := os.WriteFile(path, []byte(p.Content), 0o644); err != nil {
		return nil, agenterr.IO(err)
	}

	return &tool.Result{
		Title:  title,
		Output: "",
		Metadata: map[string]any{
			"diagnostics": map[string]any{},
			"filepath":    path,
			"exists":      existed,
		},
	}, nil
}
