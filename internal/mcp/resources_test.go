package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/linear-mcp/internal/linear"
)

func TestReader_ActiveIssues(t *testing.T) {
	backend := newFakeBackend()
	r := NewReader(backend)

	res, err := r.ReadResource(context.Background(), "linear://issues/active")
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	c := res.Contents[0]
	assert.Equal(t, "linear://issues/active", c.URI)
	assert.Equal(t, "application/json", c.MIMEType)

	want, err := json.MarshalIndent(backend.issues, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, string(want), c.Text)

	var got []linear.Issue
	require.NoError(t, json.Unmarshal([]byte(c.Text), &got))
	assert.Equal(t, backend.issues, got)

	assert.Equal(t, []backendCall{{op: "listActiveIssues"}}, backend.Calls())
}

func TestReader_Teams(t *testing.T) {
	backend := newFakeBackend()
	r := NewReader(backend)

	res, err := r.ReadResource(context.Background(), "linear://teams")
	require.NoError(t, err)

	var got []linear.Team
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
	assert.Equal(t, backend.teams, got)
	assert.Equal(t, []backendCall{{op: "listTeams"}}, backend.Calls())
}

func TestReader_Issue(t *testing.T) {
	tests := []struct {
		uri string
		id  string
	}{
		{uri: "linear://issues/ENG-123", id: "ENG-123"},
		{uri: "linear://issues/9cfb482a-81e3-4154-b5b9-2c805e70a02d", id: "9cfb482a-81e3-4154-b5b9-2c805e70a02d"},
		{uri: "linear://issues/active/extra", id: "active/extra"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			backend := newFakeBackend()
			r := NewReader(backend)

			res, err := r.ReadResource(context.Background(), tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.uri, res.Contents[0].URI)

			var got linear.Issue
			require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
			assert.Equal(t, *backend.issue, got)
			assert.Equal(t, []backendCall{{op: "getIssue", arg: tt.id}}, backend.Calls())
		})
	}
}

func TestReader_ActiveTakesPrecedence(t *testing.T) {
	backend := newFakeBackend()
	r := NewReader(backend)

	_, err := r.ReadResource(context.Background(), URIActiveIssues)
	require.NoError(t, err)

	for _, c := range backend.Calls() {
		assert.NotEqual(t, "getIssue", c.op)
	}
}

func TestReader_UnknownResource(t *testing.T) {
	uris := []string{
		"",
		"linear://issues/",
		"linear://issues",
		"linear://projects",
		"linear://teams/team-1",
		"https://linear.app/acme",
	}

	for _, uri := range uris {
		t.Run(uri, func(t *testing.T) {
			backend := newFakeBackend()
			r := NewReader(backend)

			res, err := r.ReadResource(context.Background(), uri)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrUnknownResource)
			assert.Empty(t, backend.Calls())
		})
	}
}

func TestReader_BackendError(t *testing.T) {
	uris := []string{URIActiveIssues, URITeams, "linear://issues/ENG-1"}

	for _, uri := range uris {
		t.Run(uri, func(t *testing.T) {
			backend := newFakeBackend()
			backend.err = errors.New("Entity not found")
			r := NewReader(backend)

			_, err := r.ReadResource(context.Background(), uri)
			require.Error(t, err)

			var backendErr *BackendError
			require.ErrorAs(t, err, &backendErr)
			assert.Equal(t, "Entity not found", err.Error())
			assert.Len(t, backend.Calls(), 1)
		})
	}
}

func TestReader_ActiveSegmentUnreachable(t *testing.T) {
	backend := newFakeBackend()
	r := NewReader(backend)

	_, err := r.readIssue(context.Background(), activeIssueSegment)
	assert.ErrorIs(t, err, errUnreachable)
	assert.Empty(t, backend.Calls())
}
