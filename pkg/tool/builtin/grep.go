package toolbuiltin

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

const grepDescription = `A powerful search tool for finding text patterns in files.

Usage:
- Supports full regex syntax (e.g., "log.*Error", "function\s+\w+")
- Filter files with glob parameter (e.g., "*.js", "**/*.tsx")
- Output modes: "content" shows matching lines, "files_with_matches" shows only file paths
- Use -C/-A/-B for context lines around matches`

type grepParams struct {
	Pattern         string `json:"pattern"`
	Path            string `json:"path,omitempty"`
	Glob            string `json:"glob,omitempty"`
	OutputMode      string `json:"output_mode,omitempty"`
	CaseInsensitive bool   `json:"-i,omitempty"`
	LineNumbers     *bool  `json:"-n,omitempty"`
	Before          *int   `json:"-B,omitempty"`
	After           *int   `json:"-A,omitempty"`
	Context         *int   `json:"-C,omitempty"`
	HeadLimit       *int   `json:"head_limit,omitempty"`
}

// GrepTool searches file contents with a regular expression, walking
// directories and skipping hidden entries.
type GrepTool struct{}

func (t *GrepTool) Name() string        { return "grep" }
func (t *GrepTool) Description() string { return grepDescription }

func (t *GrepTool) Schema() *tool.JSONSchema {
	return &tool.JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"pattern":     tool.StringProp("The regular expression pattern to search for"),
			"path":        tool.StringProp("File or directory to search in"),
			"glob":        tool.StringProp("Glob pattern to filter files"),
			"output_mode": tool.EnumProp("Output mode", "content", "files_with_matches", "count"),
			"-i":          tool.BoolProp("Case insensitive search"),
			"-n":          tool.BoolProp("Show line numbers"),
			"-B":          tool.NumberProp("Lines of context before match"),
			"-A":          tool.NumberProp("Lines of context after match"),
			"-C":          tool.NumberProp("Lines of context around match"),
			"head_limit":  tool.NumberProp("Maximum results to return"),
		},
		Required: []string{"pattern"},
	}
}

func (t *GrepTool) Execute(ctx context.Context, params map[string]any, tc *tool.Context) (*tool.Result, error) {
	var p grepParams
	if err := decodeParams("grep", params, &p); err != nil {
		return nil, err
	}

	searchPath := tc.WorkingDir
	if p.Path != "" {
		searchPath = tc.Resolve(p.Path)
	}

	pattern := p.Pattern
	if p.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, agenterr.ToolExecution("grep", fmt.Sprintf("Invalid regex: %v", err))
	}

	outputMode := p.OutputMode
	if outputMode == "" {
		outputMode = "files_with_matches"
	}
	lineNumbers := p.LineNumbers == nil || *p.LineNumbers

	before, after := 0, 0
	if p.Context != nil {
		before, after = *p.Context, *p.Context
	} else {
		if p.Before != nil {
			before = *p.Before
		}
		if p.After != nil {
			after = *p.After
		}
	}

	files, err := collectFiles(searchPath, p.Glob)
	if err != nil {
		return nil, err
	}

	var results []string
	matchCount := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		fileMatches := searchFile(string(content), re, tc.Display(file),
			outputMode, lineNumbers, before, after)
		if len(fileMatches) == 0 {
			continue
		}
		matchCount += len(fileMatches)
		results = append(results, fileMatches...)

		if p.HeadLimit != nil && len(results) >= *p.HeadLimit {
			results = results[:*p.HeadLimit]
			break
		}
	}

	return &tool.Result{
		Title:    p.Pattern,
		Output:   strings.Join(results, "\n"),
		Metadata: map[string]any{"count": matchCount},
	}, nil
}

// collectFiles gathers regular files beneath path, skipping hidden
// files and directories, optionally filtered by a basename glob.
func collectFiles(path, globFilter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, agenterr.FileNotFound(path, nil)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	walkErr := filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if entry != path && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			if globFilter != "" && !matchesGlob(name, globFilter) {
				return nil
			}
			files = append(files, entry)
		}
		return nil
	})
	if walkErr != nil {
		return nil, agenterr.IO(walkErr)
	}
	return files, nil
}

// matchesGlob filters basenames. A leading "**/" applies the rest of
// the pattern to every directory level.
func matchesGlob(name, pattern string) bool {
	pattern = strings.TrimPrefix(pattern, "**/")
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

func searchFile(content string, re *regexp.Regexp, relPath, outputMode string, lineNumbers bool, before, after int) []string {
	lines := splitLines(content)

	renderLine := func(idx int) string {
		if lineNumbers {
			return fmt.Sprintf("%s:%d: %s", relPath, idx+1, lines[idx])
		}
		return fmt.Sprintf("%s: %s", relPath, lines[idx])
	}

	var results []string
	hasMatch := false
	count := 0
	for i, line := range lines {
		if !re.MatchString(line) {
			continue
		}
		hasMatch = true
		count++

		if outputMode != "content" {
			continue
		}
		for j := max(0, i-before); j < i; j++ {
			results = append(results, renderLine(j))
		}
		results = append(results, renderLine(i))
		for j := i + 1; j < min(len(lines), i+after+1); j++ {
			results = append(results, renderLine(j))
		}
	}

	if !hasMatch {
		return nil
	}
	switch outputMode {
	case "files_with_matches":
		return []string{relPath}
	case "count":
		return []string{fmt.Sprintf("%s:%d", relPath, count)}
	default:
		return results
	}
}
