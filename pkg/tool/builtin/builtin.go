// Package toolbuiltin implements the builtin tool set: read, write,
// edit, list, glob, grep, and bash.
package toolbuiltin

import (
	"encoding/json"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/pkg/tool"
)

// NewRegistry returns a registry populated with the builtin tools in
// their advertised order.
func NewRegistry() *tool.Registry {
	reg := tool.NewRegistry()
	for _, t := range []tool.Tool{
		&ReadTool{},
		&WriteTool{},
		&EditTool{},
		&ListTool{},
		&GlobTool{},
		&GrepTool{},
		&BashTool{},
	} {
		reg.MustRegister(t)
	}
	return reg
}

// decodeParams maps the raw parameter object onto a typed struct,
// rejecting malformed values with an InvalidArguments error.
func decodeParams(toolName string, params map[string]any, dst any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return agenterr.InvalidArguments(toolName, err.Error())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return agenterr.InvalidArguments(toolName, err.Error())
	}
	return nil
}
