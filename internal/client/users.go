package client

import (
	"context"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// UsersClient implements ghapi.UsersClient.
type UsersClient struct {
	conn *Connection
}

// NewUsersClient creates a new users client.
func NewUsersClient(conn *Connection) *UsersClient {
	return &UsersClient{conn: conn}
}

// Current returns the authenticated user.
func (c *UsersClient) Current(ctx context.Context) (*ghapi.User, error) {
	return one[ghapi.User](ctx, c.conn, at(EndpointCurrentUser), nil)
}

// Get returns a user by login.
func (c *UsersClient) Get(ctx context.Context, login string) (*ghapi.User, error) {
	return one[ghapi.User](ctx, c.conn, at(EndpointUser, login), nil)
}
