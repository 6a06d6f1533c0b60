package toolbuiltin

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

const listDescription = `Lists files and directories in a given path.

Usage:
- If no path is specified, lists the current working directory
- Returns file names, sizes, and modification times
- Directories are marked with a trailing slash`

type listParams struct {
	Path string `json:"path,omitempty"`
}

// ListTool lists a directory with human readable sizes.
type ListTool struct{}

func (t *ListTool) Name() string        { return "list" }
func (t *ListTool) Description() string { return listDescription }

func (t *ListTool) Schema() *tool.JSONSchema {
	return &tool.JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"path": tool.StringProp("The path to list (defaults to current directory)"),
		},
	}
}

func (t *ListTool) Execute(ctx context.Context, params map[string]any, tc *tool.Context) (*tool.Result, error) {
	var p listParams
	if err := decodeParams("list", params, &p); err != nil {
		return nil, err
	}

	dir := tc.WorkingDir
	if p.Path != "" {
		dir = tc.Resolve(p.Path)
	}
	title := tc.Display(dir)
	if title == "" {
		title = "."
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, agenterr.FileNotFound(dir, nil)
	}
	if !info.IsDir() {
		return nil, agenterr.ToolExecution("list", fmt.Sprintf("Not a directory: %s", dir))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, agenterr.IO(err)
	}

	formatted := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			formatted = append(formatted, entry.Name()+"/")
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, agenterr.IO(err)
		}
		formatted = append(formatted, fmt.Sprintf("%s (%s)", entry.Name(), formatSize(fi.Size())))
	}
	sort.Strings(formatted)

	return &tool.Result{
		Title:    title,
		Output:   strings.Join(formatted, "\n"),
		Metadata: map[string]any{"count": len(formatted)},
	}, nil
}

// formatSize renders a byte count as B, KB, MB or GB with one decimal.
func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1fGB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1fMB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1fKB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
