package toolbuiltin

import (
	"context"
	"os"
	"strings"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

const editDescription = `Performs exact string replacements in files.

Usage:
- The filePath parameter must be an absolute path
- oldString must exist in the file (exact match or fuzzy match fallback)
- newString must be different from oldString
- Use replaceAll=true to replace all occurrences
- The edit will fail if oldString matches multiple locations (use more context)`

type editParams struct {
	FilePath   string `json:"filePath"`
	OldString  string `json:"oldString"`
	NewString  string `json:"newString"`
	ReplaceAll bool   `json:"replaceAll,omitempty"`
}

// EditTool rewrites part of a file via the Replace cascade. An empty
// oldString creates the file.
type EditTool struct{}

func (t *EditTool) Name() string        { return "edit" }
func (t *EditTool) Description() string { return editDescription }

func (t *EditTool) Schema() *tool.JSONSchema {
	return &tool.JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"filePath":   tool.StringProp("The absolute path to the file to modify"),
			"oldString":  tool.StringProp("The text to replace"),
			"newString":  tool.StringProp("The text to replace it with (must be different from oldString)"),
			"replaceAll": tool.BoolProp("Replace all occurrences of oldString (default false)"),
		},
		Required: []string{"filePath", "oldString", "newString"},
	}
}

func (t *EditTool) Execute(ctx context.Context, params map[string]any, tc *tool.Context) (*tool.Result, error) {
	var p editParams
	if err := decodeParams("edit", params, &p); err != nil {
		return nil, err
	}

	if p.OldString == p.NewString {
		return nil, agenterr.InvalidArguments("edit", "oldString and newString must be different")
	}

	path := tc.Resolve(p.FilePath)
	title := tc.Display(path)

	// Empty oldString creates the file.
	if p.OldString == "" {
		if err := os.WriteFile(path, []byte(p.NewString), 0o644); err != nil {
			return nil, agenterr.IO(err)
		}
		return editResult(title, path, "", p.NewString), nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, agenterr.FileNotFound(path, nil)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, agenterr.IO(err)
	}
	before := strings.ReplaceAll(string(raw), "\r\n", "\n")

	after, err := Replace(before, p.OldString, p.NewString, p.ReplaceAll)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, []byte(after), 0o644); err != nil {
		return nil, agenterr.IO(err)
	}

	return editResult(title, path, before, after), nil
}

func editResult(title, path, before, after string) *tool.Result {
	additions, deletions := countChanges(before, after)
	return &tool.Result{
		Title:  title,
		Output: "",
		Metadata: map[string]any{
			"diagnostics": map[string]any{},
			"diff":        createDiff(before, after, path),
			"filediff": map[string]any{
				"file":      path,
				"before":    before,
				"after":     after,
				"additions": additions,
				"deletions": deletions,
			},
		},
	}
}
