package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// resourceRoute pairs a URI matcher with the read it resolves to. match
// returns the route argument (the issue id for the template) and whether
// the URI belongs to the route.
type resourceRoute struct {
	name  string
	match func(uri string) (string, bool)
	read  func(ctx context.Context, arg string) (any, error)
}

// Reader resolves resource URIs to backend reads.
type Reader struct {
	backend Backend
	routes  []resourceRoute
}

// NewReader creates a Reader backed by backend.
func NewReader(backend Backend) *Reader {
	r := &Reader{backend: backend}
	// Evaluated in order; the first match wins. The active-issues URI also
	// carries the issue prefix, so it must precede the template route.
	r.routes = []resourceRoute{
		{name: "activeIssues", match: exactURI(URIActiveIssues), read: r.readActiveIssues},
		{name: "teams", match: exactURI(URITeams), read: r.readTeams},
		{name: "issue", match: prefixURI(issueURIPrefix), read: r.readIssue},
	}
	return r
}

func exactURI(want string) func(string) (string, bool) {
	return func(uri string) (string, bool) {
		return "", uri == want
	}
}

func prefixURI(prefix string) func(string) (string, bool) {
	return func(uri string) (string, bool) {
		rest, ok := strings.CutPrefix(uri, prefix)
		if !ok || rest == "" {
			return "", false
		}
		return rest, true
	}
}

// route returns the route for uri and its argument.
func (r *Reader) route(uri string) (resourceRoute, string, bool) {
	for _, rt := range r.routes {
		if arg, ok := rt.match(uri); ok {
			return rt, arg, true
		}
	}
	return resourceRoute{}, "", false
}

// ReadResource reads uri with exactly one backend call and returns the
// result as indented JSON. Unroutable URIs fail with ErrUnknownResource
// without touching the backend.
func (r *Reader) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	rt, arg, ok := r.route(uri)
	if !ok {
		return nil, unknownResource(uri)
	}

	v, err := rt.read(ctx, arg)
	if err != nil {
		return nil, err
	}

	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", rt.name, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeTypeJSON,
			Text:     string(text),
		}},
	}, nil
}

func (r *Reader) readActiveIssues(ctx context.Context, _ string) (any, error) {
	issues, err := r.backend.ListActiveIssues(ctx)
	if err != nil {
		return nil, &BackendError{Op: "listActiveIssues", Err: err}
	}
	return issues, nil
}

func (r *Reader) readTeams(ctx context.Context, _ string) (any, error) {
	teams, err := r.backend.ListTeams(ctx)
	if err != nil {
		return nil, &BackendError{Op: "listTeams", Err: err}
	}
	return teams, nil
}

func (r *Reader) readIssue(ctx context.Context, id string) (any, error) {
	if id == activeIssueSegment {
		return nil, fmt.Errorf("%w: issue id %q", errUnreachable, id)
	}
	issue, err := r.backend.GetIssue(ctx, id)
	if err != nil {
		return nil, &BackendError{Op: "getIssue", Err: err}
	}
	return issue, nil
}
