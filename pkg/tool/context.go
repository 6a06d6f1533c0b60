package tool

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/stellarlinkco/opentool/internal/fsutil"
	"github.com/stellarlinkco/opentool/internal/id"
)

// Context carries per-invocation state handed to every tool: the
// session and message the call belongs to, the acting agent, and the
// working directory paths resolve against.
type Context struct {
	SessionID  string
	MessageID  string
	Agent      string
	CallID     string
	ProviderID string
	ModelID    string
	WorkingDir string

	// Extra holds transport-specific values tools may consult.
	Extra map[string]any
}

// NewContext builds a Context for the given session and message,
// minting identifiers when the supplied ones are empty. The working
// directory defaults to the process working directory.
func NewContext(sessionID, messageID, workingDir string) *Context {
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}
	return &Context{
		SessionID:  id.Ascending(id.Session, sessionID),
		MessageID:  id.Ascending(id.Message, messageID),
		Agent:      "opentool",
		WorkingDir: workingDir,
	}
}

// WithCallID returns a copy of the context bound to one tool call.
func (tc *Context) WithCallID(callID string) *Context {
	clone := *tc
	clone.CallID = callID
	return &clone
}

// WithModel returns a copy of the context annotated with the provider
// and model handling the call.
func (tc *Context) WithModel(providerID, modelID string) *Context {
	clone := *tc
	clone.ProviderID = providerID
	clone.ModelID = modelID
	return &clone
}

// Resolve turns path into an absolute path, joining relative paths to
// the working directory.
func (tc *Context) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(tc.WorkingDir, path)
}

// Display renders path relative to the working directory when it lives
// inside it, otherwise the absolute path is returned unchanged.
func (tc *Context) Display(path string) string {
	abs := tc.Resolve(path)
	if !fsutil.Contains(tc.WorkingDir, abs) {
		return abs
	}
	rel := fsutil.Relative(tc.WorkingDir, abs)
	if strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}
