package constants

import "errors"

// Configuration errors.
var (
	ErrNoTokenConfigured   = errors.New("no token configured, use 'ghapi login' or set GHAPI_TOKEN")
	ErrNoKeyringEntry      = errors.New("no token stored in the keyring for this host")
	ErrKeyringUnavailable  = errors.New("keyring service unavailable")
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json or yaml")
	ErrInvalidLogLevel     = errors.New("invalid log level")
)

// Argument errors.
var (
	ErrInvalidRepositoryArg = errors.New("repository must be given as owner/name")
	ErrEmptyTwoFactorCode   = errors.New("two-factor code must not be empty")
	ErrTokenRequired        = errors.New("a token is required")
)
