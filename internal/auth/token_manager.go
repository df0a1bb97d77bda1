package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenSource = errors.New("no token source configured")
	ErrEmptyToken    = errors.New("token source returned an empty token")
)

// Authenticator sets credentials on an outgoing request. Implementations are
// shared by concurrent calls and must be safe for concurrent use.
type Authenticator interface {
	Apply(ctx context.Context, headers http.Header) error
}

// StaticTokenAuthenticator sends a fixed personal access token.
type StaticTokenAuthenticator struct {
	token string
}

// NewStaticTokenAuthenticator creates an authenticator for a fixed token.
func NewStaticTokenAuthenticator(token string) *StaticTokenAuthenticator {
	return &StaticTokenAuthenticator{token: token}
}

// Apply implements Authenticator.
func (a *StaticTokenAuthenticator) Apply(ctx context.Context, headers http.Header) error {
	headers.Set(constants.HeaderAuthorization, "token "+a.token)

	return nil
}

// TokenSourceAuthenticator asks an oauth2.TokenSource for each request. The
// source is wrapped in oauth2.ReuseTokenSource so a valid token is reused
// until it expires.
type TokenSourceAuthenticator struct {
	mutex  sync.Mutex
	source oauth2.TokenSource
}

// NewTokenSourceAuthenticator wraps source.
func NewTokenSourceAuthenticator(source oauth2.TokenSource) *TokenSourceAuthenticator {
	return &TokenSourceAuthenticator{source: oauth2.ReuseTokenSource(nil, source)}
}

// Token returns the current token, refreshing if needed.
func (a *TokenSourceAuthenticator) Token() (*oauth2.Token, error) {
	if a.source == nil {
		return nil, ErrNoTokenSource
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	token, err := a.source.Token()
	if err != nil {
		return nil, fmt.Errorf("fetching token: %w", err)
	}

	if token.AccessToken == "" {
		return nil, ErrEmptyToken
	}

	return token, nil
}

// Apply implements Authenticator.
func (a *TokenSourceAuthenticator) Apply(ctx context.Context, headers http.Header) error {
	token, err := a.Token()
	if err != nil {
		return err
	}

	token.SetAuthHeader(&http.Request{Header: headers})

	return nil
}

// BasicAuthenticator sends login and password. Accounts with two-factor
// authentication answer 401 with an X-GitHub-OTP challenge.
type BasicAuthenticator struct {
	encoded string
}

// NewBasicAuthenticator creates a basic-auth authenticator.
func NewBasicAuthenticator(login, password string) *BasicAuthenticator {
	return &BasicAuthenticator{
		encoded: base64.StdEncoding.EncodeToString([]byte(login + ":" + password)),
	}
}

// Apply implements Authenticator.
func (a *BasicAuthenticator) Apply(ctx context.Context, headers http.Header) error {
	headers.Set(constants.HeaderAuthorization, "Basic "+a.encoded)

	return nil
}

// Credentials selects an authenticator by the documented precedence:
// token source, then static token, then basic auth. It returns nil for
// anonymous access.
func Credentials(source oauth2.TokenSource, token, login, password string) Authenticator {
	switch {
	case source != nil:
		return NewTokenSourceAuthenticator(source)
	case token != "":
		return NewStaticTokenAuthenticator(token)
	case login != "" && password != "":
		return NewBasicAuthenticator(login, password)
	default:
		return nil
	}
}
