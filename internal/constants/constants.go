package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoints and media types.
const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultAcceptMediaType is sent when a call carries no accept override.
	DefaultAcceptMediaType = "application/vnd.github.v3+json"

	// JSONContentType is the content type of request bodies.
	JSONContentType = "application/json"

	// DefaultUserAgent identifies the client when none is configured.
	DefaultUserAgent = "ghapi-client"
)

// Wire header names.
const (
	// HeaderTwoFactor carries the one-time password and, on a 401, the challenge.
	HeaderTwoFactor = "X-GitHub-OTP"

	// HeaderRateLimitLimit is the request quota for the current window.
	HeaderRateLimitLimit = "X-RateLimit-Limit"

	// HeaderRateLimitRemaining is the remaining quota for the current window.
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"

	// HeaderRateLimitReset is the window reset time in epoch seconds.
	HeaderRateLimitReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is sent with secondary rate limit responses.
	HeaderRetryAfter = "Retry-After"

	// HeaderLink carries pagination relations.
	HeaderLink = "Link"

	// HeaderETag and HeaderIfNoneMatch drive conditional requests.
	HeaderETag        = "ETag"
	HeaderIfNoneMatch = "If-None-Match"

	// HeaderAuthorization carries credentials.
	HeaderAuthorization = "Authorization"
)

// Pagination query parameters.
const (
	// QueryPage selects the page number.
	QueryPage = "page"

	// QueryPerPage selects the page size.
	QueryPerPage = "per_page"

	// MaxPageSize is the largest page size the API honors.
	MaxPageSize = 100
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryWaitMin is the minimum wait between opt-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second

	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 3

	// DefaultBatchTimeout bounds a single batch operation.
	DefaultBatchTimeout = 5 * time.Minute
)

// Cache settings.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long a cached representation stays eligible for revalidation.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultNATSBucket is the KV bucket used for the NATS cache backend.
	DefaultNATSBucket = "ghapi-cache"
)

// Logging settings.
const (
	// LogFileMaxSizeMB is the size at which the CLI log file is rotated.
	LogFileMaxSizeMB = 10

	// LogFileMaxBackups is the number of rotated log files kept.
	LogFileMaxBackups = 3

	// LogFileMaxAgeDays is how long rotated log files are kept.
	LogFileMaxAgeDays = 28
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// KeyringService is the service name used for keyring entries.
	KeyringService = "ghapi"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
