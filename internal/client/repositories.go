package client

import (
	"context"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// RepositoriesClient implements ghapi.RepositoriesClient.
type RepositoriesClient struct {
	conn *Connection
}

// NewRepositoriesClient creates a new repositories client.
func NewRepositoriesClient(conn *Connection) *RepositoriesClient {
	return &RepositoriesClient{conn: conn}
}

// Get retrieves a repository.
func (c *RepositoriesClient) Get(ctx context.Context, owner, name string) (*ghapi.Repository, error) {
	return one[ghapi.Repository](ctx, c.conn, at(EndpointRepository, owner, name), nil)
}

// ListForCurrent lists repositories of the authenticated user.
func (c *RepositoriesClient) ListForCurrent(ctx context.Context, params *ghapi.QueryParams, options *ghapi.APIOptions) ([]ghapi.Repository, error) {
	return list[ghapi.Repository](ctx, c.conn, at(EndpointCurrentUserRepositories), params, options)
}

// ListForUser lists public repositories of a user.
func (c *RepositoriesClient) ListForUser(ctx context.Context, login string, params *ghapi.QueryParams, options *ghapi.APIOptions) ([]ghapi.Repository, error) {
	return list[ghapi.Repository](ctx, c.conn, at(EndpointUserRepositories, login), params, options)
}

// ListForOrg lists repositories of an organization.
func (c *RepositoriesClient) ListForOrg(ctx context.Context, org string, params *ghapi.QueryParams, options *ghapi.APIOptions) ([]ghapi.Repository, error) {
	return list[ghapi.Repository](ctx, c.conn, at(EndpointOrgRepositories, org), params, options)
}

// Create creates a repository for the authenticated user, or for
// request.Org when set.
func (c *RepositoriesClient) Create(ctx context.Context, request *ghapi.NewRepository) (*ghapi.Repository, error) {
	target := at(EndpointCreateRepository)
	if request.Org != "" {
		target = at(EndpointCreateOrgRepository, request.Org)
	}

	return one[ghapi.Repository](ctx, c.conn, target, request, WithExpectedStatus(201))
}

// Edit updates a repository.
func (c *RepositoriesClient) Edit(ctx context.Context, owner, name string, request *ghapi.RepositoryUpdate) (*ghapi.Repository, error) {
	return one[ghapi.Repository](ctx, c.conn, at(EndpointEditRepository, owner, name), request)
}

// Delete deletes a repository.
func (c *RepositoriesClient) Delete(ctx context.Context, owner, name string) error {
	_, err := call[ghapi.Empty](ctx, c.conn, at(EndpointDeleteRepository, owner, name), nil)

	return err
}
