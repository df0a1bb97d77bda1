// Package ghclient provides the main entry point for creating GitHub API clients
package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/ghapi-client/internal/client"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// ErrUnsupportedClient is returned by the raw helpers for clients not built
// by this package.
var ErrUnsupportedClient = errors.New("client was not created by ghclient")

// New creates a new GitHub API client. An empty BaseURL selects
// https://api.github.com; a BaseURL without a scheme gets https://.
func New(ctx context.Context, config *ghapi.Config) (ghapi.Client, error) {
	if config == nil {
		return nil, ghapi.ErrConfigRequired
	}

	normalized := *config
	normalized.BaseURL = normalizeBaseURL(config.BaseURL)

	cli, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return "https://api.github.com"
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithEndpoint creates an anonymous client.
func NewWithEndpoint(ctx context.Context, endpoint string) (ghapi.Client, error) {
	return New(ctx, &ghapi.Config{
		BaseURL: endpoint,
	})
}

// NewWithToken creates a new client with a personal access token.
func NewWithToken(ctx context.Context, endpoint, token string) (ghapi.Client, error) {
	return New(ctx, &ghapi.Config{
		BaseURL: endpoint,
		Token:   token,
	})
}

// NewWithTokenSource creates a new client that asks source for every request.
func NewWithTokenSource(ctx context.Context, endpoint string, source oauth2.TokenSource) (ghapi.Client, error) {
	return New(ctx, &ghapi.Config{
		BaseURL:     endpoint,
		TokenSource: source,
	})
}

// NewWithBasicAuth creates a new client using login/password authentication.
// Accounts with two-factor authentication need a one-time code per call.
func NewWithBasicAuth(ctx context.Context, endpoint, login, password string) (ghapi.Client, error) {
	return New(ctx, &ghapi.Config{
		BaseURL:  endpoint,
		Login:    login,
		Password: password,
	})
}

// RawOptions tune GetRaw and GetAllRaw.
type RawOptions struct {
	Accept        string
	TwoFactorCode string
	Params        *ghapi.QueryParams
}

func (o *RawOptions) requestOptions() []client.RequestOption {
	var opts []client.RequestOption

	if o == nil {
		return opts
	}

	if o.Accept != "" {
		opts = append(opts, client.WithAccept(o.Accept))
	}

	if o.TwoFactorCode != "" {
		opts = append(opts, client.WithTwoFactorCode(o.TwoFactorCode))
	}

	return opts
}

// GetRaw performs a GET against any path and returns the undecoded body in
// the response envelope.
func GetRaw(ctx context.Context, cli ghapi.Client, path string, options *RawOptions) (*ghapi.Response[json.RawMessage], error) {
	impl, ok := cli.(*client.Client)
	if !ok {
		return nil, ErrUnsupportedClient
	}

	opts := options.requestOptions()
	if options != nil && options.Params != nil {
		opts = append(opts, client.WithQuery(options.Params.ToValues()))
	}

	return client.Get[json.RawMessage](ctx, impl.Connection(), path, opts...)
}

// GetAllRaw paginates any list endpoint and returns its items undecoded.
func GetAllRaw(ctx context.Context, cli ghapi.Client, path string, options *RawOptions, apiOptions *ghapi.APIOptions) ([]json.RawMessage, error) {
	impl, ok := cli.(*client.Client)
	if !ok {
		return nil, ErrUnsupportedClient
	}

	var params *ghapi.QueryParams
	if options != nil {
		params = options.Params
	}

	return client.GetAll[json.RawMessage](ctx, impl.Connection(), path, params, apiOptions, options.requestOptions()...)
}
