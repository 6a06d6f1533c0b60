package toolbuiltin

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/internal/fsutil"
	"github.com/stellarlinkco/opentool/internal/id"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

const (
	defaultReadLimit = 2000
	maxLineLength    = 2000
)

const readDescription = `Reads a file from the local filesystem.

Usage:
- The filePath parameter must be an absolute path
- By default, reads up to 2000 lines from the beginning
- Optionally specify offset and limit for pagination
- Returns content with line numbers
- Can read image files (returns base64 encoded data)
- Detects and rejects binary files`

type readParams struct {
	FilePath string `json:"filePath"`
	Offset   *int   `json:"offset,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
}

// ReadTool returns file contents with line numbers, or an attachment
// for image files.
type ReadTool struct{}

func (t *ReadTool) Name() string        { return "read" }
func (t *ReadTool) Description() string { return readDescription }

func (t *ReadTool) Schema() *tool.JSONSchema {
	return &tool.JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"filePath": tool.StringProp("The path to the file to read"),
			"offset":   tool.NumberProp("The line number to start reading from (0-based)"),
			"limit":    tool.NumberProp("The number of lines to read (defaults to 2000)"),
		},
		Required: []string{"filePath"},
	}
}

func (t *ReadTool) Execute(ctx context.Context, params map[string]any, tc *tool.Context) (*tool.Result, error) {
	var p readParams
	if err := decodeParams("read", params, &p); err != nil {
		return nil, err
	}

	filepath := tc.Resolve(p.FilePath)
	title := tc.Display(filepath)

	if _, err := os.Stat(filepath); err != nil {
		return nil, agenterr.FileNotFound(filepath, fsutil.SuggestSimilar(filepath))
	}

	if format, ok := fsutil.ImageFormat(filepath); ok {
		return readImage(filepath, format, title, tc)
	}

	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, agenterr.IO(err)
	}

	if fsutil.IsBinary(filepath, content) {
		return nil, agenterr.BinaryFile(filepath)
	}

	lines := splitLines(string(content))

	offset := 0
	if p.Offset != nil && *p.Offset > 0 {
		offset = *p.Offset
	}
	limit := defaultReadLimit
	if p.Limit != nil && *p.Limit >= 0 {
		limit = *p.Limit
	}

	start := min(offset, len(lines))
	end := min(offset+limit, len(lines))
	selected := lines[start:end]

	formatted := make([]string, 0, len(selected))
	for i, line := range selected {
		formatted = append(formatted, fmt.Sprintf("%05d| %s", i+offset+1, truncateLine(line, maxLineLength)))
	}

	var output strings.Builder
	output.WriteString("<file>\n")
	output.WriteString(strings.Join(formatted, "\n"))

	lastReadLine := offset + len(formatted)
	if len(lines) > lastReadLine {
		fmt.Fprintf(&output,
			"\n\n(File has more lines. Use 'offset' parameter to read beyond line %d)",
			lastReadLine)
	} else {
		fmt.Fprintf(&output, "\n\n(End of file - total %d lines)", len(lines))
	}
	output.WriteString("\n</file>")

	previewLen := min(20, len(selected))
	preview := strings.Join(selected[:previewLen], "\n")

	return &tool.Result{
		Title:    title,
		Output:   output.String(),
		Metadata: map[string]any{"preview": preview},
	}, nil
}

// truncateLine caps a line at max characters, cutting on a rune
// boundary so multi-byte sequences stay intact.
func truncateLine(line string, max int) string {
	if len(line) <= max {
		return line
	}
	count := 0
	for i := range line {
		if count == max {
			return line[:i] + "..."
		}
		count++
	}
	return line
}

// readImage validates the image signature and inlines the bytes as a
// base64 data URL attachment.
func readImage(path, format, title string, tc *tool.Context) (*tool.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, agenterr.IO(err)
	}

	if !fsutil.ValidateImage(content, format) {
		return nil, agenterr.ToolExecution("read", fmt.Sprintf(
			"Image validation failed: %s has image extension but does not contain valid %s data",
			path, format))
	}

	mime := fsutil.ImageMime(format)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(content))

	attachment := tool.Attachment{
		ID:        id.Ascending(id.Part, ""),
		SessionID: tc.SessionID,
		MessageID: tc.MessageID,
		Type:      "file",
		Mime:      mime,
		URL:       dataURL,
	}

	return &tool.Result{
		Title:       title,
		Output:      "Image read successfully",
		Metadata:    map[string]any{"preview": "Image read successfully"},
		Attachments: []tool.Attachment{attachment},
	}, nil
}
