package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/linear-mcp/internal/linear"
	"github.com/fyrsmithlabs/linear-mcp/internal/logging"
	"github.com/fyrsmithlabs/linear-mcp/internal/telemetry"
)

type testHarness struct {
	backend *fakeBackend
	server  *Server
	session *mcp.ClientSession
	logger  *logging.TestLogger
	tel     *telemetry.TestTelemetry
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	ctx := context.Background()

	backend := newFakeBackend()
	logger := logging.NewTestLogger()
	tel := telemetry.NewTestTelemetry()

	s, err := NewServer(DefaultConfig(), backend, logger.Logger,
		WithMetrics(NewMetrics(tel.Meter(instrumentationName), logger.Logger)),
		WithTracer(tel.Tracer(instrumentationName)),
	)
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return &testHarness{
		backend: backend,
		server:  s,
		session: cs,
		logger:  logger,
		tel:     tel,
	}
}

func requireRPCError(t *testing.T, err error, code int64) *jsonrpc.Error {
	t.Helper()
	require.Error(t, err)
	var rpcErr *jsonrpc.Error
	require.True(t, errors.As(err, &rpcErr), "expected jsonrpc error, got %T: %v", err, err)
	assert.Equal(t, code, rpcErr.Code)
	return rpcErr
}

func TestNewServer_RequiresBackend(t *testing.T) {
	_, err := NewServer(nil, nil, nil)
	require.Error(t, err)
}

func TestNewServer_Defaults(t *testing.T) {
	s, err := NewServer(nil, newFakeBackend(), nil)
	require.NoError(t, err)
	assert.NotNil(t, s.MCPServer())
	assert.NotNil(t, s.metrics)
	assert.NotNil(t, s.tracer)
}

func TestServer_Listings(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	resources, err := h.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 2)
	assert.Equal(t, URIActiveIssues, resources.Resources[0].URI)
	assert.Equal(t, URITeams, resources.Resources[1].URI)

	templates, err := h.session.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, templates.ResourceTemplates, 1)
	assert.Equal(t, URITemplateIssue, templates.ResourceTemplates[0].URITemplate)

	tools, err := h.session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{ToolCreateIssue, ToolReadTeamIDs, ToolUpdateIssue}, names)

	assert.Empty(t, h.backend.Calls())
}

func TestServer_ReadResource(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	res, err := h.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "linear://issues/ENG-42"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "linear://issues/ENG-42", res.Contents[0].URI)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var issue linear.Issue
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &issue))
	assert.Equal(t, "ENG-9", issue.Identifier)
	assert.Equal(t, []backendCall{{op: "getIssue", arg: "ENG-42"}}, h.backend.Calls())

	h.tel.AssertSpanExists(t, "mcp.resources.read")
	h.tel.AssertSpanAttribute(t, "mcp.resources.read", "mcp.resource.uri", "linear://issues/ENG-42")
}

func TestServer_ReadResource_Unknown(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "linear://projects"})
	rpcErr := requireRPCError(t, err, jsonrpc.CodeInvalidRequest)
	assert.Contains(t, rpcErr.Message, "linear://projects")
	assert.Empty(t, h.backend.Calls())

	h.logger.AssertLogged(t, zapcore.WarnLevel, "resource read failed")
}

func TestServer_ReadResource_BackendError(t *testing.T) {
	h := newTestHarness(t)
	h.backend.err = errors.New("Entity not found")

	_, err := h.session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: URITeams})
	rpcErr := requireRPCError(t, err, jsonrpc.CodeInternalError)
	assert.Equal(t, "Entity not found", rpcErr.Message)

	h.logger.AssertLogged(t, zapcore.ErrorLevel, "resource read failed")
}

func TestServer_CallTool(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	res, err := h.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolCreateIssue,
		Arguments: map[string]any{"title": "Broken login", "teamId": "team-1"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Created issue: https://linear.app/acme/issue/ENG-9", textOf(t, res))

	h.tel.AssertSpanAttribute(t, "mcp.tools.call", "mcp.tool.name", ToolCreateIssue)
	h.logger.AssertLogged(t, zapcore.InfoLevel, "tool call completed")
	h.logger.AssertField(t, "tool call completed", "mcp.tool", ToolCreateIssue)

	rm, err := h.tel.Collect(ctx)
	require.NoError(t, err)
	invocations, ok := telemetry.FindMetric(rm, "linear_mcp.tool.invocations_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), telemetry.SumInt64(invocations))
}

func TestServer_CallTool_BackendErrorIsSoft(t *testing.T) {
	h := newTestHarness(t)
	h.backend.err = errors.New("Authentication required")

	res, err := h.session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: ToolReadTeamIDs,
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Linear API error: Authentication required", textOf(t, res))

	rm, err := h.tel.Collect(context.Background())
	require.NoError(t, err)
	errs, ok := telemetry.FindMetric(rm, "linear_mcp.tool.errors_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), telemetry.SumInt64(errs))
}

func TestServer_CallTool_Unknown(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.session.CallTool(context.Background(), &mcp.CallToolParams{Name: "delete_issue"})
	rpcErr := requireRPCError(t, err, jsonrpc.CodeMethodNotFound)
	assert.Contains(t, rpcErr.Message, "delete_issue")
	assert.Empty(t, h.backend.Calls())
}

func TestServer_CallTool_InvalidArguments(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolUpdateIssue,
		Arguments: map[string]any{"title": "no id"},
	})
	requireRPCError(t, err, jsonrpc.CodeInvalidParams)
	assert.Empty(t, h.backend.Calls())
}

func TestServer_RequestCorrelation(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolCreateIssue,
		Arguments: map[string]any{"title": "T", "teamId": "team-1"},
	})
	require.NoError(t, err)

	entries := h.logger.FilterMessage("tool call completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["request.id"])
	assert.Equal(t, "tools/call", fields["mcp.method"])
	h.logger.AssertNoSecrets(t)
}

func TestServer_Handler(t *testing.T) {
	s, err := NewServer(nil, newFakeBackend(), nil)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "http-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: srv.URL}, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: ToolReadTeamIDs})
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "team-1")

}
