package toolbuiltin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

const globDescription = `Fast file pattern matching tool.

Usage:
- Supports glob patterns like "*.js" or "src/*/*.ts"
- Returns matching file paths sorted by modification time
- Use for finding files by name patterns`

type globParams struct {
	Pattern string `json:"pattern"`
	Path    string `json:"path,omitempty"`
}

// GlobTool expands a glob pattern under a base directory and returns
// matching files, newest first.
type GlobTool struct{}

func (t *GlobTool) Name() string        { return "glob" }
func (t *GlobTool) Description() string { return globDescription }

func (t *GlobTool) Schema() *tool.JSONSchema {
	return &tool.JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"pattern": tool.StringProp("The glob pattern to match files against"),
			"path":    tool.StringProp("The directory to search in (defaults to working directory)"),
		},
		Required: []string{"pattern"},
	}
}

func (t *GlobTool) Execute(ctx context.Context, params map[string]any, tc *tool.Context) (*tool.Result, error) {
	var p globParams
	if err := decodeParams("glob", params, &p); err != nil {
		return nil, err
	}

	base := tc.WorkingDir
	if p.Path != "" {
		base = tc.Resolve(p.Path)
	}

	fullPattern := p.Pattern
	if !strings.HasPrefix(fullPattern, "/") {
		fullPattern = filepath.Join(base, fullPattern)
	}

	paths, err := filepath.Glob(fullPattern)
	if err != nil {
		return nil, agenterr.ToolExecution("glob", fmt.Sprintf("Invalid pattern: %v", err))
	}

	type match struct {
		path  string
		mtime time.Time
	}
	matches := make([]match, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		matches = append(matches, match{path, info.ModTime()})
	}

	// Most recently modified first.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].mtime.After(matches[j].mtime)
	})

	output := make([]string, 0, len(matches))
	for _, m := range matches {
		output = append(output, tc.Display(m.path))
	}

	return &tool.Result{
		Title:    p.Pattern,
		Output:   strings.Join(output, "\n"),
		Metadata: map[string]any{"count": len(output)},
	}, nil
}
