package tool

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stellarlinkco/opentool/internal/agenterr"
)

// Call captures a single tool invocation request.
type Call struct {
	Name    string
	Params  map[string]any
	Context *Context
}

// cloneParams performs a shallow copy to keep tool execution isolated
// from caller-provided maps. Nested maps are copied too.
func (c Call) cloneParams() map[string]any {
	if c.Params == nil {
		return map[string]any{}
	}
	dup := make(map[string]any, len(c.Params))
	for k, v := range c.Params {
		dup[k] = cloneValue(v)
	}
	return dup
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		dup := make(map[string]any, len(val))
		for k, inner := range val {
			dup[k] = cloneValue(inner)
		}
		return dup
	case []any:
		dup := make([]any, len(val))
		for i, inner := range val {
			dup[i] = cloneValue(inner)
		}
		return dup
	default:
		return v
	}
}

// CallResult holds the outcome of executing a Call.
type CallResult struct {
	Call        Call
	Result      *Result
	Err         error
	StartedAt   time.Time
	CompletedAt time.Time
}

// Duration reports how long the execution took. Zero when timestamps
// are not populated.
func (r CallResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Executor wires registry lookup with parameter validation.
type Executor struct {
	registry  *Registry
	validator Validator
}

// NewExecutor constructs an executor backed by the provided registry.
// When registry is nil a fresh Registry is created so callers never
// receive a nil executor by accident.
func NewExecutor(registry *Registry) *Executor {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Executor{registry: registry, validator: DefaultValidator{}}
}

// Registry exposes the underlying registry primarily for tests.
func (e *Executor) Registry() *Registry { return e.registry }

// Execute runs a single tool call. Parameters are validated against
// the tool schema and cloned before being handed to the tool.
func (e *Executor) Execute(ctx context.Context, call Call) (*CallResult, error) {
	if e == nil || e.registry == nil {
		return nil, agenterr.Unknown("executor is not initialised")
	}
	if strings.TrimSpace(call.Name) == "" {
		return nil, agenterr.InvalidArguments("", "tool name is empty")
	}

	t, ok := e.registry.Get(call.Name)
	if !ok {
		return nil, agenterr.ToolExecution(call.Name, fmt.Sprintf("unknown tool: %s", call.Name))
	}

	params := call.cloneParams()
	if err := e.validator.Validate(params, t.Schema()); err != nil {
		return nil, agenterr.InvalidArguments(call.Name, err.Error())
	}

	tc := call.Context
	if tc == nil {
		tc = NewContext("", "", "")
	}

	started := time.Now()
	res, execErr := t.Execute(ctx, params, tc)
	if execErr != nil {
		execErr = agenterr.Wrap(execErr)
	}
	cr := &CallResult{
		Call:        call,
		Result:      res,
		Err:         execErr,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	return cr, execErr
}

// ExecuteAll runs the provided calls concurrently and preserves
// ordering in the returned slice. Each call gets its own parameter
// copy; tools observe ctx directly.
func (e *Executor) ExecuteAll(ctx context.Context, calls []Call) []CallResult {
	results := make([]CallResult, len(calls))
	var wg sync.WaitGroup
	wg.Add(len(calls))

	for i := range calls {
		call := calls[i]
		go func(idx int) {
			defer wg.Done()
			if ctx != nil && ctx.Err() != nil {
				results[idx] = CallResult{Call: call, Err: ctx.Err()}
				return
			}
			cr, err := e.Execute(ctx, call)
			if cr != nil {
				results[idx] = *cr
				return
			}
			results[idx] = CallResult{Call: call, Err: err}
		}(i)
	}

	wg.Wait()
	return results
}
