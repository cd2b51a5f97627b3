package mcp

import (
	"context"
	"sync"

	"github.com/fyrsmithlabs/linear-mcp/internal/linear"
)

type backendCall struct {
	op  string
	arg any
}

// fakeBackend records every call and returns canned data.
type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall

	issues []linear.Issue
	teams  []linear.Team
	issue  *linear.Issue
	err    error
}

func newFakeBackend() *fakeBackend {
	desc := "Steps to reproduce"
	return &fakeBackend{
		issues: []linear.Issue{
			{
				ID:          "issue-1",
				Identifier:  "ENG-1",
				Title:       "Login button unresponsive",
				Description: &desc,
				Priority:    2,
				URL:         "https://linear.app/acme/issue/ENG-1",
				State:       linear.IssueState{ID: "state-1", Name: "In Progress", Type: "started"},
				Team:        linear.TeamRef{ID: "team-1", Key: "ENG", Name: "Engineering"},
			},
		},
		teams: []linear.Team{
			{ID: "team-1", Key: "ENG", Name: "Engineering"},
			{ID: "team-2", Key: "OPS", Name: "Operations"},
		},
		issue: &linear.Issue{
			ID:         "issue-9",
			Identifier: "ENG-9",
			Title:      "Created",
			URL:        "https://linear.app/acme/issue/ENG-9",
		},
	}
}

func (f *fakeBackend) record(op string, arg any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, backendCall{op: op, arg: arg})
}

func (f *fakeBackend) Calls() []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backendCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeBackend) ListActiveIssues(ctx context.Context) ([]linear.Issue, error) {
	f.record("listActiveIssues", nil)
	if f.err != nil {
		return nil, f.err
	}
	return f.issues, nil
}

func (f *fakeBackend) ListTeams(ctx context.Context) ([]linear.Team, error) {
	f.record("listTeams", nil)
	if f.err != nil {
		return nil, f.err
	}
	return f.teams, nil
}

func (f *fakeBackend) GetIssue(ctx context.Context, id string) (*linear.Issue, error) {
	f.record("getIssue", id)
	if f.err != nil {
		return nil, f.err
	}
	return f.issue, nil
}

func (f *fakeBackend) CreateIssue(ctx context.Context, input linear.IssueCreateInput) (*linear.Issue, error) {
	f.record("createIssue", input)
	if f.err != nil {
		return nil, f.err
	}
	return f.issue, nil
}

func (f *fakeBackend) UpdateIssue(ctx context.Context, id string, input linear.IssueUpdateInput) (*linear.Issue, error) {
	f.record("updateIssue", []any{id, input})
	if f.err != nil {
		return nil, f.err
	}
	return f.issue, nil
}
