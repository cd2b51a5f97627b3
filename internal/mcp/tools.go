package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/linear-mcp/internal/linear"
)

// backendErrorPrefix starts the text of every soft tool failure.
const backendErrorPrefix = "Linear API error: "

var errMalformedArguments = errors.New("arguments do not match the input schema")

// toolHandler runs a tool with raw, not yet validated, arguments.
type toolHandler func(ctx context.Context, raw json.RawMessage) (*mcp.CallToolResult, error)

// Dispatcher resolves tool names to handlers.
type Dispatcher struct {
	backend  Backend
	handlers map[string]toolHandler
}

// Priority is decoded as a float: JSON encoders may spell an integer as
// 2.0 or 1e0, and the schema has already checked it is integral.
type createIssueArgs struct {
	Title       string   `json:"title"`
	TeamID      string   `json:"teamId"`
	Description *string  `json:"description,omitempty"`
	Priority    *float64 `json:"priority,omitempty"`
}

type updateIssueArgs struct {
	IssueID     string  `json:"issueId"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type readTeamIDsArgs struct{}

// NewDispatcher creates a Dispatcher for the catalog tools.
func NewDispatcher(backend Backend) *Dispatcher {
	d := &Dispatcher{backend: backend}
	d.handlers = map[string]toolHandler{
		ToolCreateIssue: typedTool(ToolCreateIssue, createIssueSchema(), d.createIssue),
		ToolReadTeamIDs: typedTool(ToolReadTeamIDs, readTeamIDsSchema(), d.readTeamIDs),
		ToolUpdateIssue: typedTool(ToolUpdateIssue, updateIssueSchema(), d.updateIssue),
	}
	return d
}

// Has reports whether name is a declared tool.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

// CallTool runs the named tool.
//
// Unknown names fail with ErrUnknownTool and arguments that do not match the
// input schema fail with ErrInvalidArguments. A backend failure is not an
// error: it is returned as a result with IsError set.
func (d *Dispatcher) CallTool(ctx context.Context, name string, raw json.RawMessage) (*mcp.CallToolResult, error) {
	h, ok := d.handlers[name]
	if !ok {
		return nil, unknownTool(name)
	}
	return h(ctx, raw)
}

// typedTool validates raw arguments against schema, decodes them into T and
// calls fn. fn returns the success text or a backend error.
func typedTool[T any](name string, schema *jsonschema.Schema, fn func(ctx context.Context, args T) (string, error)) toolHandler {
	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("mcp: resolving %s input schema: %v", name, err))
	}

	return func(ctx context.Context, raw json.RawMessage) (*mcp.CallToolResult, error) {
		args, err := parseArgs[T](resolved, raw)
		if err != nil {
			return nil, invalidArguments(name, err)
		}

		text, err := fn(ctx, args)
		if err != nil {
			return errorResult(err), nil
		}
		return textResult(text), nil
	}
}

// parseArgs checks raw against the resolved schema and decodes it. Absent
// or null arguments are treated as an empty object.
func parseArgs[T any](resolved *jsonschema.Resolved, raw json.RawMessage) (T, error) {
	var args T

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = json.RawMessage("{}")
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return args, fmt.Errorf("decoding arguments: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return args, err
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, errMalformedArguments
	}
	return args, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: backendErrorPrefix + err.Error()}},
		IsError: true,
	}
}

func (d *Dispatcher) createIssue(ctx context.Context, args createIssueArgs) (string, error) {
	issue, err := d.backend.CreateIssue(ctx, linear.IssueCreateInput{
		TeamID:      args.TeamID,
		Title:       args.Title,
		Description: args.Description,
		Priority:    intPtr(args.Priority),
	})
	if err != nil {
		return "", &BackendError{Op: "createIssue", Err: err}
	}
	return "Created issue: " + issue.URL, nil
}

func intPtr(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func (d *Dispatcher) updateIssue(ctx context.Context, args updateIssueArgs) (string, error) {
	issue, err := d.backend.UpdateIssue(ctx, args.IssueID, linear.IssueUpdateInput{
		Title:       args.Title,
		Description: args.Description,
	})
	if err != nil {
		return "", &BackendError{Op: "updateIssue", Err: err}
	}
	return "Updated issue: " + issue.URL, nil
}

func (d *Dispatcher) readTeamIDs(ctx context.Context, _ readTeamIDsArgs) (string, error) {
	teams, err := d.backend.ListTeams(ctx)
	if err != nil {
		return "", &BackendError{Op: "listTeams", Err: err}
	}
	b, err := json.Marshal(teams)
	if err != nil {
		return "", fmt.Errorf("encoding teams: %w", err)
	}
	return string(b), nil
}
