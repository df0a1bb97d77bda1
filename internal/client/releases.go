package client

import (
	"context"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// ReleasesClient implements ghapi.ReleasesClient.
type ReleasesClient struct {
	conn *Connection
}

// NewReleasesClient creates a new releases client.
func NewReleasesClient(conn *Connection) *ReleasesClient {
	return &ReleasesClient{conn: conn}
}

// Get retrieves a release by ID.
func (c *ReleasesClient) Get(ctx context.Context, owner, name string, id int64) (*ghapi.Release, error) {
	return one[ghapi.Release](ctx, c.conn, at(EndpointRelease, owner, name, strconv.FormatInt(id, 10)), nil)
}

// List lists releases, newest first.
func (c *ReleasesClient) List(ctx context.Context, owner, name string, options *ghapi.APIOptions) ([]ghapi.Release, error) {
	return list[ghapi.Release](ctx, c.conn, at(EndpointReleases, owner, name), nil, options)
}

// Create publishes a release.
func (c *ReleasesClient) Create(ctx context.Context, owner, name string, request *ghapi.NewRelease) (*ghapi.Release, error) {
	return one[ghapi.Release](ctx, c.conn, at(EndpointCreateRelease, owner, name), request, WithExpectedStatus(201))
}

// Delete deletes a release.
func (c *ReleasesClient) Delete(ctx context.Context, owner, name string, id int64) error {
	_, err := call[ghapi.Empty](ctx, c.conn, at(EndpointDeleteRelease, owner, name, strconv.FormatInt(id, 10)), nil)

	return err
}
