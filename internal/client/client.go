package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/auth"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// Client implements the ghapi.Client interface.
type Client struct {
	conn    *Connection
	baseURL string
	logger  ghapi.Logger

	// Resource clients
	repositories   *RepositoriesClient
	issues         *IssuesClient
	releases       *ReleasesClient
	collaborators  *CollaboratorsClient
	users          *UsersClient
	authorizations *AuthorizationsClient
	misc           *MiscClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *ghapi.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Cache != nil {
		httpOpts = append(httpOpts, http.WithCache(config.Cache, constants.DefaultCacheTTL))
	}

	httpOpts = append(httpOpts, http.WithInterceptors(createInterceptorChain(config)))

	return httpOpts
}

// createInterceptorChain orders throttling first so metrics and logs measure
// only the round trip. Caller interceptors run last.
func createInterceptorChain(config *ghapi.Config) *ghapi.InterceptorChain {
	chain := ghapi.NewInterceptorChain()

	if config.RequestsPerSecond > 0 {
		chain.OnRequest(ghapi.RateLimitInterceptor(config.RequestsPerSecond, 1))
	}

	if config.Metrics != nil {
		chain.OnRequest(ghapi.MetricsRequestInterceptor(config.Metrics))
		chain.OnResponse(ghapi.MetricsResponseInterceptor(config.Metrics))
	}

	if config.Logger != nil {
		chain.OnRequest(ghapi.LoggingInterceptor(config.Logger))
		chain.OnResponse(ghapi.LoggingResponseInterceptor(config.Logger))
	}

	if config.Interceptors != nil {
		chain.OnRequest(config.Interceptors.BeforeSend)
		chain.OnResponse(config.Interceptors.AfterReceive)
	}

	return chain
}

// New creates a new GitHub API client.
func New(ctx context.Context, config *ghapi.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	authenticator := auth.Credentials(config.TokenSource, config.Token, config.Login, config.Password)

	return NewWithAuthenticator(config, authenticator), nil
}

// NewWithAuthenticator creates a client with a custom authenticator. A nil
// authenticator sends anonymous requests. config must already be valid.
func NewWithAuthenticator(config *ghapi.Config, authenticator auth.Authenticator) *Client {
	httpClient := http.NewClient(config.BaseURL, authenticator, createHTTPClientOptions(config)...)

	client := &Client{
		conn:    NewConnection(httpClient, config.Logger),
		baseURL: httpClient.BaseURL(),
		logger:  config.Logger,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

// Connection returns the typed request executor, for endpoints not covered
// by a resource client.
func (c *Client) Connection() *Connection {
	return c.conn
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Repositories implements ghapi.Client.Repositories.
func (c *Client) Repositories() ghapi.RepositoriesClient {
	return c.repositories
}

// Issues implements ghapi.Client.Issues.
func (c *Client) Issues() ghapi.IssuesClient {
	return c.issues
}

// Releases implements ghapi.Client.Releases.
func (c *Client) Releases() ghapi.ReleasesClient {
	return c.releases
}

// Collaborators implements ghapi.Client.Collaborators.
func (c *Client) Collaborators() ghapi.CollaboratorsClient {
	return c.collaborators
}

// Users implements ghapi.Client.Users.
func (c *Client) Users() ghapi.UsersClient {
	return c.users
}

// Authorizations implements ghapi.Client.Authorizations.
func (c *Client) Authorizations() ghapi.AuthorizationsClient {
	return c.authorizations
}

// Misc implements ghapi.Client.Misc.
func (c *Client) Misc() ghapi.MiscClient {
	return c.misc
}

func (c *Client) initializeResourceClients() {
	c.repositories = NewRepositoriesClient(c.conn)
	c.issues = NewIssuesClient(c.conn)
	c.releases = NewReleasesClient(c.conn)
	c.collaborators = NewCollaboratorsClient(c.conn)
	c.users = NewUsersClient(c.conn)
	c.authorizations = NewAuthorizationsClient(c.conn)
	c.misc = NewMiscClient(c.conn)
}

var _ ghapi.Client = (*Client)(nil)
