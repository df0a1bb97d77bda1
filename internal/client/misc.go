package client

import (
	"context"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// MiscClient implements ghapi.MiscClient.
type MiscClient struct {
	conn *Connection
}

// NewMiscClient creates a new misc client.
func NewMiscClient(conn *Connection) *MiscClient {
	return &MiscClient{conn: conn}
}

// RateLimit returns the current quotas. The call itself does not count
// against the core quota.
func (c *MiscClient) RateLimit(ctx context.Context) (*ghapi.RateLimits, error) {
	return one[ghapi.RateLimits](ctx, c.conn, at(EndpointRateLimit), nil)
}
