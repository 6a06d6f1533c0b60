// Package dispatch implements the stdin JSON event loop: newline
// separated instructions in, typed JSON events out.
package dispatch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/internal/id"
	"github.com/stellarlinkco/opentool/pkg/tool"
	toolbuiltin "github.com/stellarlinkco/opentool/pkg/tool/builtin"
)

// Instruction is one line of input. Plain text lines become the
// Message with no tool calls.
type Instruction struct {
	Message string     `json:"message"`
	Tools   []ToolCall `json:"tools,omitempty"`
}

// ToolCall names a tool and its raw parameters.
type ToolCall struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// Event is the single output frame type. Type selects which optional
// fields are populated.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
	SessionID string `json:"sessionID,omitempty"`

	// status
	Mode    string `json:"mode,omitempty"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	Tool   string `json:"tool,omitempty"`
	Result any    `json:"result,omitempty"`

	// step_finish
	Reason string `json:"reason,omitempty"`

	// error
	Error any `json:"error,omitempty"`
}

// Options configures a Runner.
type Options struct {
	WorkingDir string
	DryRun     bool
	// BashTimeoutMS overrides the bash tool's default timeout when
	// positive.
	BashTimeoutMS int
	CompactJSON   bool
	Out           io.Writer
}

// Runner drives instructions through the tool executor and writes
// events to Out.
type Runner struct {
	registry *tool.Registry
	executor *tool.Executor
	opts     Options
}

// NewRunner builds a runner over the given registry.
func NewRunner(registry *tool.Registry, opts Options) *Runner {
	return &Runner{
		registry: registry,
		executor: tool.NewExecutor(registry),
		opts:     opts,
	}
}

// Run reads instructions from in until EOF. Malformed input never
// stops the loop; it is reported as an error event.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	r.emit(Event{
		Type:    "status",
		Mode:    "stdin-stream",
		Message: "opentool ready. Accepts JSON and plain text input.",
		Hint:    "Press CTRL+C to exit.",
	})

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := r.RunOnce(ctx, line); err != nil {
			r.emitError("", err)
		}
	}
	if err := scanner.Err(); err != nil {
		r.emitError("", agenterr.IO(err))
	}
	return nil
}

// RunOnce handles a single instruction line.
func (r *Runner) RunOnce(ctx context.Context, input string) error {
	var inst Instruction
	if err := json.Unmarshal([]byte(input), &inst); err != nil || inst.Message == "" {
		inst = Instruction{Message: input}
	}

	sessionID := id.Ascending(id.Session, "")
	messageID := id.Ascending(id.Message, "")

	r.emit(Event{Type: "step_start", Timestamp: timestampMS(), SessionID: sessionID})

	if r.opts.DryRun {
		r.emit(Event{
			Type:      "text",
			Timestamp: timestampMS(),
			SessionID: sessionID,
			Text:      fmt.Sprintf("[DRY RUN] Received message: %s", inst.Message),
		})
	} else {
		tc := tool.NewContext(sessionID, messageID, r.opts.WorkingDir)
		if r.opts.BashTimeoutMS > 0 {
			tc.Extra = map[string]any{toolbuiltin.TimeoutExtraKey: r.opts.BashTimeoutMS}
		}

		r.emit(Event{
			Type:      "text",
			Timestamp: timestampMS(),
			SessionID: sessionID,
			Text: fmt.Sprintf("opentool ready. %d tools available. Message: %s",
				r.registry.Len(), inst.Message),
		})
		r.emit(Event{
			Type:      "text",
			Timestamp: timestampMS(),
			SessionID: sessionID,
			Text:      fmt.Sprintf("Available tools: %s", strings.Join(r.registry.Names(), ", ")),
		})

		for _, call := range inst.Tools {
			r.runTool(ctx, tc, sessionID, call)
		}
	}

	r.emit(Event{
		Type:      "step_finish",
		Timestamp: timestampMS(),
		SessionID: sessionID,
		Reason:    "stop",
	})
	return nil
}

func (r *Runner) runTool(ctx context.Context, tc *tool.Context, sessionID string, call ToolCall) {
	cr, err := r.executor.Execute(ctx, tool.Call{
		Name:    call.Name,
		Params:  call.Params,
		Context: tc,
	})
	if err != nil {
		log.Printf("[dispatch] tool %s failed: %v", call.Name, err)
		r.emitError(sessionID, err)
		return
	}
	r.emit(Event{
		Type:      "tool_use",
		Timestamp: timestampMS(),
		SessionID: sessionID,
		Tool:      call.Name,
		Result:    cr.Result,
	})
}

func (r *Runner) emit(ev Event) {
	var (
		raw []byte
		err error
	)
	if r.opts.CompactJSON {
		raw, err = json.Marshal(ev)
	} else {
		raw, err = json.MarshalIndent(ev, "", "  ")
	}
	if err != nil {
		log.Printf("[dispatch] marshal event: %v", err)
		return
	}
	fmt.Fprintln(r.opts.Out, string(raw))
}

func (r *Runner) emitError(sessionID string, err error) {
	r.emit(Event{
		Type:      "error",
		Timestamp: timestampMS(),
		SessionID: sessionID,
		Error:     agenterr.Wrap(err),
	})
}

func timestampMS() int64 {
	return time.Now().UnixMilli()
}
