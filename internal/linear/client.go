package linear

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/linear-mcp/internal/config"
	"github.com/fyrsmithlabs/linear-mcp/internal/logging"
	"github.com/shurcooL/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const instrumentationName = "github.com/fyrsmithlabs/linear-mcp/internal/linear"

// teamsLimit is the Linear connection maximum. Team lists are returned
// whole, so they are not bound by the issues page size.
const teamsLimit = 250

// Client is a Linear API client. It is safe for concurrent use and is meant
// to be created once per process.
type Client struct {
	gql      *graphql.Client
	limiter  *rate.Limiter
	pageSize int
	logger   *logging.Logger
	tracer   trace.Tracer
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	logger     *logging.Logger
}

// WithHTTPClient replaces the authenticated HTTP client. The caller is
// responsible for authentication.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// New creates a Linear client from configuration.
//
// An OAuth access token, when set, is sent as a bearer token. Otherwise the
// API key is sent as the raw Authorization header, as Linear expects for
// personal API keys.
func New(cfg config.LinearConfig, opts ...Option) (*Client, error) {
	if !cfg.APIKey.IsSet() && !cfg.AccessToken.IsSet() {
		return nil, fmt.Errorf("linear api key required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = config.DefaultEndpoint
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(cfg)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	return &Client{
		gql:      graphql.NewClient(cfg.Endpoint, httpClient),
		limiter:  rate.NewLimiter(limit, burst),
		pageSize: pageSize,
		logger:   o.logger.Named("linear"),
		tracer:   otel.Tracer(instrumentationName),
	}, nil
}

func newHTTPClient(cfg config.LinearConfig) *http.Client {
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if cfg.AccessToken.IsSet() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken.Value()})
		c := oauth2.NewClient(context.Background(), ts)
		c.Timeout = timeout
		return c
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &apiKeyTransport{key: cfg.APIKey},
	}
}

// apiKeyTransport sets the personal API key as the Authorization header.
type apiKeyTransport struct {
	key  config.Secret
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", t.key.Value())
	return base.RoundTrip(r)
}

// do runs one GraphQL operation with rate limiting, tracing, logging and
// metrics. Every failure is returned as an *APIError.
func (c *Client) do(ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := c.tracer.Start(ctx, "linear."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		err = newAPIError(op, fmt.Errorf("rate limiter: %w", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observeRequest(op, 0, err)
		return err
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if err != nil {
		err = newAPIError(op, err)
	}
	observeRequest(op, elapsed.Seconds(), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn(ctx, "linear request failed",
			zap.String("operation", op),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug(ctx, "linear request completed",
		zap.String("operation", op),
		zap.Duration("duration", elapsed),
	)
	return nil
}

// ListActiveIssues returns the most recently updated issues whose workflow
// state is neither completed nor canceled, up to the configured page size.
func (c *Client) ListActiveIssues(ctx context.Context) ([]Issue, error) {
	var q struct {
		Issues struct {
			Nodes []Issue
		} `graphql:"issues(first: $first, orderBy: updatedAt, filter: {state: {type: {nin: [\"completed\", \"canceled\"]}}})"`
	}
	vars := map[string]interface{}{
		"first": graphql.Int(c.pageSize),
	}

	err := c.do(ctx, "listActiveIssues", func(ctx context.Context) error {
		return c.gql.Query(ctx, &q, vars)
	}, attribute.Int("linear.page_size", c.pageSize))
	if err != nil {
		return nil, err
	}
	if q.Issues.Nodes == nil {
		return []Issue{}, nil
	}
	return q.Issues.Nodes, nil
}

// ListTeams returns the teams visible to the credential.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var q struct {
		Teams struct {
			Nodes []Team
		} `graphql:"teams(first: $first)"`
	}
	vars := map[string]interface{}{
		"first": graphql.Int(teamsLimit),
	}

	err := c.do(ctx, "listTeams", func(ctx context.Context) error {
		return c.gql.Query(ctx, &q, vars)
	})
	if err != nil {
		return nil, err
	}
	if q.Teams.Nodes == nil {
		return []Team{}, nil
	}
	return q.Teams.Nodes, nil
}

// GetIssue fetches one issue by UUID or identifier (for example "ENG-123").
func (c *Client) GetIssue(ctx context.Context, id string) (*Issue, error) {
	var q struct {
		Issue Issue `graphql:"issue(id: $id)"`
	}
	vars := map[string]interface{}{
		"id": graphql.String(id),
	}

	err := c.do(ctx, "getIssue", func(ctx context.Context) error {
		return c.gql.Query(ctx, &q, vars)
	}, attribute.String("linear.issue_id", id))
	if err != nil {
		return nil, err
	}
	return &q.Issue, nil
}

// CreateIssue creates an issue and returns it.
func (c *Client) CreateIssue(ctx context.Context, input IssueCreateInput) (*Issue, error) {
	var m struct {
		IssueCreate struct {
			Success bool
			Issue   Issue
		} `graphql:"issueCreate(input: $input)"`
	}
	vars := map[string]interface{}{
		"input": input,
	}

	err := c.do(ctx, "createIssue", func(ctx context.Context) error {
		if err := c.gql.Mutate(ctx, &m, vars); err != nil {
			return err
		}
		if !m.IssueCreate.Success {
			return unsuccessful("issueCreate")
		}
		return nil
	}, attribute.String("linear.team_id", input.TeamID))
	if err != nil {
		return nil, err
	}
	return &m.IssueCreate.Issue, nil
}

// UpdateIssue applies the non-nil fields of input to the issue and returns
// the updated issue.
func (c *Client) UpdateIssue(ctx context.Context, id string, input IssueUpdateInput) (*Issue, error) {
	var m struct {
		IssueUpdate struct {
			Success bool
			Issue   Issue
		} `graphql:"issueUpdate(id: $id, input: $input)"`
	}
	vars := map[string]interface{}{
		"id":    graphql.String(id),
		"input": input,
	}

	err := c.do(ctx, "updateIssue", func(ctx context.Context) error {
		if err := c.gql.Mutate(ctx, &m, vars); err != nil {
			return err
		}
		if !m.IssueUpdate.Success {
			return unsuccessful("issueUpdate")
		}
		return nil
	}, attribute.String("linear.issue_id", id))
	if err != nil {
		return nil, err
	}
	return &m.IssueUpdate.Issue, nil
}
