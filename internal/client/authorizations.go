package client

import (
	"context"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// AuthorizationsClient implements ghapi.AuthorizationsClient.
type AuthorizationsClient struct {
	conn *Connection
}

// NewAuthorizationsClient creates a new authorizations client.
func NewAuthorizationsClient(conn *Connection) *AuthorizationsClient {
	return &AuthorizationsClient{conn: conn}
}

// List lists authorizations of the authenticated user.
func (c *AuthorizationsClient) List(ctx context.Context, options *ghapi.APIOptions) ([]ghapi.Authorization, error) {
	return list[ghapi.Authorization](ctx, c.conn, at(EndpointAuthorizations), nil, options)
}

// GetOrCreateForApp returns the authorization for clientID, creating it if
// needed. Accounts with two-factor authentication fail with
// TwoFactorRequired; retry with GetOrCreateForAppWithCode.
func (c *AuthorizationsClient) GetOrCreateForApp(ctx context.Context, clientID string, request *ghapi.NewAuthorization) (*ghapi.Authorization, error) {
	return c.GetOrCreateForAppWithCode(ctx, clientID, request, "")
}

// GetOrCreateForAppWithCode is GetOrCreateForApp with a one-time password.
// A rejected code fails with *ghapi.TwoFactorChallengeFailedError.
func (c *AuthorizationsClient) GetOrCreateForAppWithCode(ctx context.Context, clientID string, request *ghapi.NewAuthorization, twoFactorCode string) (*ghapi.Authorization, error) {
	return TwoFactorChallenge(twoFactorCode, func(opts ...RequestOption) (*ghapi.Authorization, error) {
		return one[ghapi.Authorization](ctx, c.conn, at(EndpointAuthorizationForApp, clientID), request, opts...)
	})
}
