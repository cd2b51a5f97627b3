// Package linear is the client for the Linear GraphQL API.
//
// Client exposes the five operations the MCP layer needs: listing active
// issues and teams, fetching one issue, and creating or updating an issue.
// Each operation is a single GraphQL request gated by a client-side rate
// limiter. There are no retries and no caching; a failed request surfaces
// immediately as an *APIError whose message is Linear's own text.
package linear
