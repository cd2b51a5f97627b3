package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resource URIs.
const (
	URIActiveIssues  = "linear://issues/active"
	URITeams         = "linear://teams"
	URITemplateIssue = "linear://issues/{id}"
)

const (
	issueURIPrefix     = "linear://issues/"
	activeIssueSegment = "active"
	mimeTypeJSON       = "application/json"
)

// Tool names.
const (
	ToolCreateIssue = "create_issue"
	ToolReadTeamIDs = "read_team_ids"
	ToolUpdateIssue = "update_issue"
)

// Resources returns the static resources in declaration order.
func Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{
			URI:         URIActiveIssues,
			Name:        "Active Issues",
			MIMEType:    mimeTypeJSON,
			Description: "Issues that are not completed or canceled, most recently updated first",
		},
		{
			URI:         URITeams,
			Name:        "Teams",
			MIMEType:    mimeTypeJSON,
			Description: "Teams in the Linear workspace",
		},
	}
}

// ResourceTemplates returns the resource templates in declaration order.
func ResourceTemplates() []*mcp.ResourceTemplate {
	return []*mcp.ResourceTemplate{
		{
			URITemplate: URITemplateIssue,
			Name:        "Issue",
			MIMEType:    mimeTypeJSON,
			Description: "A single issue by id or identifier (for example ENG-123)",
		},
	}
}

// Tools returns the tool descriptors in declaration order.
func Tools() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        ToolCreateIssue,
			Description: "Create a new issue in Linear",
			InputSchema: createIssueSchema(),
		},
		{
			Name:        ToolReadTeamIDs,
			Description: "List the teams in the workspace with their ids",
			InputSchema: readTeamIDsSchema(),
		},
		{
			Name:        ToolUpdateIssue,
			Description: "Update the title or description of an existing issue",
			InputSchema: updateIssueSchema(),
		},
	}
}

func createIssueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"title": {
				Type:        "string",
				Description: "Issue title",
			},
			"description": {
				Type:        "string",
				Description: "Issue description (markdown)",
			},
			"teamId": {
				Type:        "string",
				Description: "Team ID (see read_team_ids)",
			},
			"priority": {
				Type:        "integer",
				Description: "Priority: 0 none, 1 urgent, 2 high, 3 medium, 4 low",
				Minimum:     jsonschema.Ptr(0.0),
				Maximum:     jsonschema.Ptr(4.0),
			},
		},
		Required: []string{"title", "teamId"},
	}
}

func readTeamIDsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
}

func updateIssueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"issueId": {
				Type:        "string",
				Description: "Issue ID or identifier",
			},
			"title": {
				Type:        "string",
				Description: "New title",
			},
			"description": {
				Type:        "string",
				Description: "New description (markdown)",
			},
		},
		Required: []string{"issueId"},
	}
}
