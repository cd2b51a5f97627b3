package mcp

import (
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

var (
	// ErrUnknownResource is returned for a read URI that matches no resource
	// or template.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrUnknownTool is returned for a tool name that is not in the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when tool arguments do not match the
	// tool's input schema. The backend is not called.
	ErrInvalidArguments = errors.New("invalid arguments")

	// errUnreachable marks a routing state the precedence rules exclude.
	errUnreachable = errors.New("unreachable resource route")
)

// BackendError wraps a Linear failure during a resource read or tool call.
// Error returns the backend message unchanged.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func unknownResource(uri string) error {
	return fmt.Errorf("%w: %s", ErrUnknownResource, uri)
}

func unknownTool(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func invalidArguments(tool string, err error) error {
	return fmt.Errorf("%w for %s: %v", ErrInvalidArguments, tool, err)
}

// toProtocolError maps a handler error to the JSON-RPC error sent to the
// client.
func toProtocolError(err error) *jsonrpc.Error {
	var code int64
	switch {
	case errors.Is(err, ErrUnknownResource):
		code = jsonrpc.CodeInvalidRequest
	case errors.Is(err, ErrUnknownTool):
		code = jsonrpc.CodeMethodNotFound
	case errors.Is(err, ErrInvalidArguments):
		code = jsonrpc.CodeInvalidParams
	default:
		code = jsonrpc.CodeInternalError
	}
	return &jsonrpc.Error{Code: code, Message: err.Error()}
}

// errorReason is the low-cardinality label used for error metrics.
func errorReason(err error) string {
	var backendErr *BackendError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownResource):
		return "unknown_resource"
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	case errors.Is(err, ErrInvalidArguments):
		return "invalid_arguments"
	case errors.As(err, &backendErr):
		return "backend_error"
	default:
		return "internal_error"
	}
}
