package mcp

import (
	"context"

	"github.com/fyrsmithlabs/linear-mcp/internal/linear"
)

// Backend is the subset of the Linear client the handlers call.
// *linear.Client satisfies it.
type Backend interface {
	ListActiveIssues(ctx context.Context) ([]linear.Issue, error)
	ListTeams(ctx context.Context) ([]linear.Team, error)
	GetIssue(ctx context.Context, id string) (*linear.Issue, error)
	CreateIssue(ctx context.Context, input linear.IssueCreateInput) (*linear.Issue, error)
	UpdateIssue(ctx context.Context, id string, input linear.IssueUpdateInput) (*linear.Issue, error)
}

var _ Backend = (*linear.Client)(nil)
