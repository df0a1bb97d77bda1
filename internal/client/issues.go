package client

import (
	"context"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// IssuesClient implements ghapi.IssuesClient.
type IssuesClient struct {
	conn *Connection
}

// NewIssuesClient creates a new issues client.
func NewIssuesClient(conn *Connection) *IssuesClient {
	return &IssuesClient{conn: conn}
}

// Get retrieves an issue by number.
func (c *IssuesClient) Get(ctx context.Context, owner, name string, number int) (*ghapi.Issue, error) {
	return one[ghapi.Issue](ctx, c.conn, at(EndpointIssue, owner, name, strconv.Itoa(number)), nil)
}

// ListForRepository lists issues of a repository.
func (c *IssuesClient) ListForRepository(ctx context.Context, owner, name string, params *ghapi.QueryParams, options *ghapi.APIOptions) ([]ghapi.Issue, error) {
	return list[ghapi.Issue](ctx, c.conn, at(EndpointIssues, owner, name), params, options)
}

// Create opens an issue.
func (c *IssuesClient) Create(ctx context.Context, owner, name string, request *ghapi.NewIssue) (*ghapi.Issue, error) {
	return one[ghapi.Issue](ctx, c.conn, at(EndpointCreateIssue, owner, name), request, WithExpectedStatus(201))
}

// Update edits an issue.
func (c *IssuesClient) Update(ctx context.Context, owner, name string, number int, request *ghapi.IssueUpdate) (*ghapi.Issue, error) {
	return one[ghapi.Issue](ctx, c.conn, at(EndpointUpdateIssue, owner, name, strconv.Itoa(number)), request)
}
