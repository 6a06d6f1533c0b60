package toolbuiltin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

const (
	defaultTimeoutMS = 120_000
	maxTimeoutMS     = 600_000
	maxOutputLength  = 30_000
)

const bashDescription = `Executes a given bash command in a persistent shell session.

Usage:
- Use for terminal operations like git, npm, docker, etc.
- Commands have a default timeout of 2 minutes (max 10 minutes)
- Output exceeding 30000 characters will be truncated
- Always quote file paths containing spaces`

type bashParams struct {
	Command     string `json:"command"`
	Timeout     *int64 `json:"timeout,omitempty"`
	Description string `json:"description,omitempty"`
}

// BashTool runs a command through bash -c in the context's working
// directory.
type BashTool struct{}

// TimeoutExtraKey overrides the default bash timeout when set in
// Context.Extra, in milliseconds. An explicit timeout param still wins.
const TimeoutExtraKey = "bashTimeoutMs"

func defaultTimeout(tc *tool.Context) int64 {
	switch v := tc.Extra[TimeoutExtraKey].(type) {
	case int:
		if v > 0 {
			return int64(v)
		}
	case int64:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int64(v)
		}
	}
	return defaultTimeoutMS
}

func (t *BashTool) Name() string        { return "bash" }
func (t *BashTool) Description() string { return bashDescription }

func (t *BashTool) Schema() *tool.JSONSchema {
	return &tool.JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"command":     tool.StringProp("The command to execute"),
			"timeout":     tool.NumberProp("Optional timeout in milliseconds (max 600000)"),
			"description": tool.StringProp("Description of what this command does"),
		},
		Required: []string{"command"},
	}
}

func (t *BashTool) Execute(ctx context.Context, params map[string]any, tc *tool.Context) (*tool.Result, error) {
	var p bashParams
	if err := decodeParams("bash", params, &p); err != nil {
		return nil, err
	}

	timeoutMS := defaultTimeout(tc)
	if p.Timeout != nil {
		timeoutMS = *p.Timeout
	}
	timeoutMS = min(timeoutMS, maxTimeoutMS)

	title := p.Description
	if title == "" {
		fields := strings.Fields(p.Command)
		if len(fields) > 3 {
			fields = fields[:3]
		}
		title = strings.Join(fields, " ")
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", "-c", p.Command)
	cmd.Dir = tc.WorkingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, agenterr.ToolExecution("bash",
			fmt.Sprintf("Command timed out after %dms", timeoutMS))
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, agenterr.ToolExecution("bash", runErr.Error())
		}
	}

	var output strings.Builder
	output.WriteString(stdout.String())
	if stderr.Len() > 0 {
		if output.Len() > 0 {
			output.WriteString("\n--- stderr ---\n")
		}
		output.WriteString(stderr.String())
	}

	text := output.String()
	if len(text) > maxOutputLength {
		text = text[:maxOutputLength] + "\n... (output truncated)"
	}
	if exitCode != 0 {
		text += fmt.Sprintf("\n(exit code: %d)", exitCode)
	}

	return &tool.Result{
		Title:  title,
		Output: text,
		Metadata: map[string]any{
			"exitCode": exitCode,
			"command":  p.Command,
		},
	}, nil
}
