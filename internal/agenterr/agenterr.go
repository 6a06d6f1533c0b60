// Package agenterr defines the error taxonomy shared by the tool
// runtime and its transports. Every error carries a stable name and a
// data payload so callers can present or serialize failures uniformly.
package agenterr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind is the stable wire name of an error category.
type Kind string

const (
	KindFileNotFound     Kind = "FileNotFound"
	KindBinaryFile       Kind = "BinaryFile"
	KindInvalidArguments Kind = "InvalidArguments"
	KindToolExecution    Kind = "ToolExecution"
	KindProviderInit     Kind = "ProviderInitError"
	KindAuthentication   Kind = "AuthenticationError"
	KindSession          Kind = "SessionError"
	KindConfig           Kind = "ConfigError"
	KindIO               Kind = "IOError"
	KindJSON             Kind = "JSONError"
	KindHTTP             Kind = "HTTPError"
	KindUnknown          Kind = "UnknownError"
)

// Error is the single error type used across the agent. Construct it
// through the kind-specific helpers below.
type Error struct {
	kind        Kind
	path        string
	suggestions []string
	tool        string
	provider    string
	sessionID   string
	message     string
	cause       error
}

func FileNotFound(path string, suggestions []string) *Error {
	return &Error{kind: KindFileNotFound, path: path, suggestions: suggestions}
}

func BinaryFile(path string) *Error {
	return &Error{kind: KindBinaryFile, path: path}
}

func InvalidArguments(tool, message string) *Error {
	return &Error{kind: KindInvalidArguments, tool: tool, message: message}
}

func ToolExecution(tool, message string) *Error {
	return &Error{kind: KindToolExecution, tool: tool, message: message}
}

func ProviderInit(provider, message string) *Error {
	return &Error{kind: KindProviderInit, provider: provider, message: message}
}

func Authentication(message string) *Error {
	return &Error{kind: KindAuthentication, message: message}
}

func Session(sessionID, message string) *Error {
	return &Error{kind: KindSession, sessionID: sessionID, message: message}
}

func Config(message string) *Error {
	return &Error{kind: KindConfig, message: message}
}

func IO(cause error) *Error {
	return &Error{kind: KindIO, cause: cause}
}

func JSON(cause error) *Error {
	return &Error{kind: KindJSON, cause: cause}
}

func HTTP(cause error) *Error {
	return &Error{kind: KindHTTP, cause: cause}
}

func Unknown(message string) *Error {
	return &Error{kind: KindUnknown, message: message}
}

// Wrap converts any error into an *Error, passing taxonomy errors
// through unchanged.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Unknown(err.Error())
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Unwrap() error { return e.cause }

// Path reports the file path for FileNotFound and BinaryFile errors.
func (e *Error) Path() string { return e.path }

// Suggestions reports the alternative paths attached to a
// FileNotFound error.
func (e *Error) Suggestions() []string { return e.suggestions }

func (e *Error) Error() string {
	switch e.kind {
	case KindFileNotFound:
		return fmt.Sprintf("File not found: %s", e.path)
	case KindBinaryFile:
		return fmt.Sprintf("Cannot read binary file: %s", e.path)
	case KindInvalidArguments:
		return fmt.Sprintf("Invalid arguments for tool '%s': %s", e.tool, e.message)
	case KindToolExecution:
		return fmt.Sprintf("Tool execution failed: %s", e.message)
	case KindProviderInit:
		return fmt.Sprintf("Provider initialization failed: %s", e.provider)
	case KindAuthentication:
		return fmt.Sprintf("Authentication error: %s", e.message)
	case KindSession:
		return fmt.Sprintf("Session error: %s", e.message)
	case KindConfig:
		return fmt.Sprintf("Configuration error: %s", e.message)
	case KindIO:
		return fmt.Sprintf("IO error: %v", e.cause)
	case KindJSON:
		return fmt.Sprintf("JSON error: %v", e.cause)
	case KindHTTP:
		return fmt.Sprintf("HTTP error: %v", e.cause)
	default:
		return fmt.Sprintf("Unknown error: %s", e.message)
	}
}

// Message is the human-readable text placed in the data payload. For
// FileNotFound it folds the suggestions into the message so a caller
// that only shows text still surfaces them.
func (e *Error) Message() string {
	if e.kind == KindFileNotFound && len(e.suggestions) > 0 {
		return fmt.Sprintf("%s\n\nDid you mean one of these?\n%s",
			e.Error(), strings.Join(e.suggestions, "\n"))
	}
	return e.Error()
}

// MarshalJSON renders the error as {"name": ..., "data": {...}} with
// message always present in data.
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]any{"message": e.Message()}
	switch e.kind {
	case KindFileNotFound:
		data["path"] = e.path
		if len(e.suggestions) > 0 {
			data["suggestions"] = e.suggestions
		}
	case KindBinaryFile:
		data["path"] = e.path
	case KindInvalidArguments, KindToolExecution:
		data["tool"] = e.tool
	case KindProviderInit:
		data["provider"] = e.provider
	case KindSession:
		if e.sessionID != "" {
			data["sessionID"] = e.sessionID
		}
	}
	return json.Marshal(map[string]any{
		"name": string(e.kind),
		"data": data,
	})
}
