package ghapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
)

// Client provides access to the resource clients.
type Client interface {
	Repositories() RepositoriesClient
	Issues() IssuesClient
	Releases() ReleasesClient
	Collaborators() CollaboratorsClient
	Users() UsersClient
	Authorizations() AuthorizationsClient
	Misc() MiscClient
}

// RepositoriesClient covers /repos, /user/repos and /orgs/{org}/repos.
type RepositoriesClient interface {
	Get(ctx context.Context, owner, name string) (*Repository, error)
	ListForCurrent(ctx context.Context, params *QueryParams, options *APIOptions) ([]Repository, error)
	ListForUser(ctx context.Context, login string, params *QueryParams, options *APIOptions) ([]Repository, error)
	ListForOrg(ctx context.Context, org string, params *QueryParams, options *APIOptions) ([]Repository, error)
	Create(ctx context.Context, request *NewRepository) (*Repository, error)
	Edit(ctx context.Context, owner, name string, request *RepositoryUpdate) (*Repository, error)
	Delete(ctx context.Context, owner, name string) error
}

// IssuesClient covers /repos/{owner}/{repo}/issues.
type IssuesClient interface {
	Get(ctx context.Context, owner, name string, number int) (*Issue, error)
	ListForRepository(ctx context.Context, owner, name string, params *QueryParams, options *APIOptions) ([]Issue, error)
	Create(ctx context.Context, owner, name string, request *NewIssue) (*Issue, error)
	Update(ctx context.Context, owner, name string, number int, request *IssueUpdate) (*Issue, error)
}

// ReleasesClient covers /repos/{owner}/{repo}/releases.
type ReleasesClient interface {
	Get(ctx context.Context, owner, name string, id int64) (*Release, error)
	List(ctx context.Context, owner, name string, options *APIOptions) ([]Release, error)
	Create(ctx context.Context, owner, name string, request *NewRelease) (*Release, error)
	Delete(ctx context.Context, owner, name string, id int64) error
}

// CollaboratorsClient covers /repos/{owner}/{repo}/collaborators.
type CollaboratorsClient interface {
	List(ctx context.Context, owner, name string, options *APIOptions) ([]User, error)
	IsCollaborator(ctx context.Context, owner, name, login string) (bool, error)
	Add(ctx context.Context, owner, name, login string, request *CollaboratorRequest) error
}

// UsersClient covers /user and /users.
type UsersClient interface {
	Current(ctx context.Context) (*User, error)
	Get(ctx context.Context, login string) (*User, error)
}

// AuthorizationsClient covers /authorizations.
type AuthorizationsClient interface {
	List(ctx context.Context, options *APIOptions) ([]Authorization, error)
	GetOrCreateForApp(ctx context.Context, clientID string, request *NewAuthorization) (*Authorization, error)
	GetOrCreateForAppWithCode(ctx context.Context, clientID string, request *NewAuthorization, twoFactorCode string) (*Authorization, error)
}

// MiscClient covers endpoints that belong to no resource.
type MiscClient interface {
	RateLimit(ctx context.Context) (*RateLimits, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Authentication precedence
//
//  1. TokenSource: each request asks the source for a token (refreshing as needed).
//  2. Token: sent as a static "token" credential.
//  3. Login/Password: HTTP basic auth. Accounts with two-factor enabled
//     answer with a TwoFactorRequired error until a code is supplied.
//  4. None: requests are anonymous.
//
// # Timeouts and retries
//
// Per-call deadlines belong on the context passed to each method.
// HTTPTimeout bounds every single round trip. The core performs no retries;
// RetryMax enables caller-level backoff inside the transport for connection
// errors, 429 Too Many Requests and every 5xx except 501 Not Implemented.
type Config struct {
	// BaseURL of the API, e.g. "https://api.github.com" or a GitHub
	// Enterprise "https://ghe.example.com/api/v3".
	BaseURL string `validate:"required,url"`

	Token       string
	TokenSource oauth2.TokenSource
	Login       string
	Password    string

	HTTPTimeout  time.Duration `validate:"gte=0"`
	RetryMax     int           `validate:"gte=0"`
	RetryWaitMin time.Duration `validate:"gte=0"`
	RetryWaitMax time.Duration `validate:"gte=0"`

	// RequestsPerSecond throttles outgoing requests client-side when > 0.
	RequestsPerSecond float64 `validate:"gte=0"`

	Debug     bool
	Logger    Logger
	UserAgent string

	// Cache enables conditional GETs (ETag revalidation) when set.
	Cache Cache
	// Metrics records per-request counters and latencies when set.
	Metrics *MetricsCollector
	// Interceptors run around every round trip.
	Interceptors *InterceptorChain
}

var configValidate = validator.New()

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, fmt.Sprintf("%s failed %q", fieldErr.Field(), fieldErr.Tag()))
		}

		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, "; "))
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
