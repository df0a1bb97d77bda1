package ghapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// ErrorKind is the closed set of failure categories a non-2xx response maps to.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindTwoFactorRequired
	KindValidationFailed
	KindRateLimitExceeded
	KindAbuseDetected
	KindForbidden
)

var kindNames = map[ErrorKind]string{
	KindGeneric:           "Generic",
	KindNotFound:          "NotFound",
	KindUnauthorized:      "Unauthorized",
	KindTwoFactorRequired: "TwoFactorRequired",
	KindValidationFailed:  "ValidationFailed",
	KindRateLimitExceeded: "RateLimitExceeded",
	KindAbuseDetected:     "AbuseDetected",
	KindForbidden:         "Forbidden",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// kindSentinel lets callers match an APIError kind with errors.Is.
type kindSentinel ErrorKind

func (s kindSentinel) Error() string {
	return ErrorKind(s).String()
}

// Sentinels for errors.Is matching against *APIError.
var (
	ErrGeneric           error = kindSentinel(KindGeneric)
	ErrNotFound          error = kindSentinel(KindNotFound)
	ErrUnauthorized      error = kindSentinel(KindUnauthorized)
	ErrTwoFactorRequired error = kindSentinel(KindTwoFactorRequired)
	ErrValidationFailed  error = kindSentinel(KindValidationFailed)
	ErrRateLimitExceeded error = kindSentinel(KindRateLimitExceeded)
	ErrAbuseDetected     error = kindSentinel(KindAbuseDetected)
	ErrForbidden         error = kindSentinel(KindForbidden)
)

// Local precondition failures. These never come from the wire.
var (
	ErrInvalidOptions        = errors.New("invalid pagination options")
	ErrConfigRequired        = errors.New("config is required")
	ErrInvalidConfig         = errors.New("invalid config")
	ErrMissingURLArgument    = errors.New("missing URL argument")
	ErrUnexpectedURLArgument = errors.New("unexpected URL argument")
	ErrUnknownEndpoint       = errors.New("unknown endpoint")
)

// TwoFactorProvider names the channel the one-time password is delivered by.
type TwoFactorProvider string

const (
	TwoFactorApp     TwoFactorProvider = "app"
	TwoFactorSMS     TwoFactorProvider = "sms"
	TwoFactorUnknown TwoFactorProvider = "unknown"
)

// FieldError is one entry of a 422 response.
type FieldError struct {
	Resource string `json:"resource" yaml:"resource"`
	Field    string `json:"field"    yaml:"field"`
	Code     string `json:"code"     yaml:"code"`
	Message  string `json:"message"  yaml:"message"`
}

// APIError is a non-accepted response mapped to its ErrorKind. Only the
// fields relevant to Kind are populated.
type APIError struct {
	Kind             ErrorKind
	StatusCode       int
	Message          string
	DocumentationURL string

	// TwoFactorRequired
	Provider TwoFactorProvider
	// ValidationFailed
	FieldErrors []FieldError
	// RateLimitExceeded
	ResetAt time.Time
	// AbuseDetected
	RetryAfter time.Duration

	Headers http.Header
	Body    []byte

	// Err is set when a Generic error was caused by a local failure such as
	// a malformed body.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)

	switch e.Kind {
	case KindTwoFactorRequired:
		msg += fmt.Sprintf(" [provider: %s]", e.Provider)
	case KindRateLimitExceeded:
		msg += " [resets at " + e.ResetAt.Format(time.RFC3339) + "]"
	case KindAbuseDetected:
		if e.RetryAfter > 0 {
			msg += " [retry after " + e.RetryAfter.String() + "]"
		}
	case KindValidationFailed:
		if len(e.FieldErrors) > 0 {
			fields := make([]string, 0, len(e.FieldErrors))
			for _, fieldErr := range e.FieldErrors {
				fields = append(fields, fieldErr.Resource+"."+fieldErr.Field+": "+fieldErr.Code)
			}

			msg += " [" + strings.Join(fields, ", ") + "]"
		}
	}

	return msg
}

// Is reports whether target is the sentinel for e.Kind.
func (e *APIError) Is(target error) bool {
	sentinel, ok := target.(kindSentinel)

	return ok && ErrorKind(sentinel) == e.Kind
}

// Unwrap returns the local cause of a Generic error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// TransportError is a connection-level failure: the request may never have
// reached the server. It is never an APIError.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure on %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes context.Canceled, context.DeadlineExceeded and network errors.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// TwoFactorChallengeFailedError reports that a supplied one-time code was rejected.
type TwoFactorChallengeFailedError struct {
	Code string
	Err  error
}

// Error implements the error interface.
func (e *TwoFactorChallengeFailedError) Error() string {
	return fmt.Sprintf("two-factor challenge failed for code %q: %v", e.Code, e.Err)
}

// Unwrap returns the rejected call's error.
func (e *TwoFactorChallengeFailedError) Unwrap() error {
	return e.Err
}

// errorBody is the JSON shape of API error responses.
type errorBody struct {
	Message          string          `json:"message"`
	DocumentationURL string          `json:"documentation_url"`
	Errors           json.RawMessage `json:"errors"`
}

// MapError converts a non-accepted response into exactly one ErrorKind.
func MapError(statusCode int, headers http.Header, body []byte) *APIError {
	if headers == nil {
		headers = http.Header{}
	}

	apiErr := &APIError{
		Kind:       KindGeneric,
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
	}

	parsed, parseErr := parseErrorBody(body)
	if parseErr == nil {
		apiErr.DocumentationURL = parsed.DocumentationURL
	}

	apiErr.Message = errorMessage(statusCode, parsed, parseErr)

	switch statusCode {
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case http.StatusUnauthorized:
		if provider, ok := parseTwoFactorChallenge(headers.Get(constants.HeaderTwoFactor)); ok {
			apiErr.Kind = KindTwoFactorRequired
			apiErr.Provider = provider
		} else {
			apiErr.Kind = KindUnauthorized
		}
	case http.StatusForbidden:
		mapForbidden(apiErr, headers, parsed, parseErr)
	case http.StatusUnprocessableEntity:
		mapValidation(apiErr, body, parsed, parseErr)
	}

	return apiErr
}

func mapForbidden(apiErr *APIError, headers http.Header, parsed *errorBody, parseErr error) {
	if remaining := strings.TrimSpace(headers.Get(constants.HeaderRateLimitRemaining)); remaining == "0" {
		apiErr.Kind = KindRateLimitExceeded
		apiErr.ResetAt = ParseRate(headers).Reset

		return
	}

	if parseErr == nil && isAbuseMessage(parsed) {
		apiErr.Kind = KindAbuseDetected

		if seconds, err := strconv.Atoi(strings.TrimSpace(headers.Get(constants.HeaderRetryAfter))); err == nil && seconds > 0 {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}

		return
	}

	apiErr.Kind = KindForbidden
}

func mapValidation(apiErr *APIError, body []byte, parsed *errorBody, parseErr error) {
	if parseErr != nil {
		apiErr.Message = rawMessage(apiErr.StatusCode, body)

		return
	}

	var fieldErrors []FieldError

	if len(parsed.Errors) > 0 && string(parsed.Errors) != "null" {
		err := json.Unmarshal(parsed.Errors, &fieldErrors)
		if err != nil {
			apiErr.Message = rawMessage(apiErr.StatusCode, body)

			return
		}
	}

	apiErr.Kind = KindValidationFailed
	apiErr.FieldErrors = fieldErrors
}

func parseErrorBody(body []byte) (*errorBody, error) {
	var parsed errorBody

	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal error body: %w", err)
	}

	return &parsed, nil
}

// errorMessage is the first human-readable string in the body, else the status line.
func errorMessage(statusCode int, parsed *errorBody, parseErr error) string {
	if parseErr == nil {
		if parsed.Message != "" {
			return parsed.Message
		}

		var entries []struct {
			Message string `json:"message"`
		}

		if json.Unmarshal(parsed.Errors, &entries) == nil {
			for _, entry := range entries {
				if entry.Message != "" {
					return entry.Message
				}
			}
		}
	}

	return statusLine(statusCode)
}

func rawMessage(statusCode int, body []byte) string {
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return statusLine(statusCode)
}

func statusLine(statusCode int) string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)))
}

// parseTwoFactorChallenge reads a header of the form "required; app".
func parseTwoFactorChallenge(value string) (TwoFactorProvider, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	state, provider, _ := strings.Cut(value, ";")
	if !strings.EqualFold(strings.TrimSpace(state), "required") {
		return "", false
	}

	switch strings.ToLower(strings.TrimSpace(provider)) {
	case string(TwoFactorApp):
		return TwoFactorApp, true
	case string(TwoFactorSMS):
		return TwoFactorSMS, true
	default:
		return TwoFactorUnknown, true
	}
}

func isAbuseMessage(parsed *errorBody) bool {
	text := strings.ToLower(parsed.Message + " " + parsed.DocumentationURL)

	return strings.Contains(text, "abuse") ||
		strings.Contains(text, "secondary rate limit") ||
		strings.Contains(text, "secondary-rate-limits")
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsTwoFactorRequired checks if the server asked for a one-time password.
func IsTwoFactorRequired(err error) bool {
	return errors.Is(err, ErrTwoFactorRequired)
}

// IsRateLimited reports primary or secondary rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded) || errors.Is(err, ErrAbuseDetected)
}

// IsTransport reports whether err is a connection-level failure.
func IsTransport(err error) bool {
	var transportErr *TransportError

	return errors.As(err, &transportErr)
}

// AsAPIError extracts the *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}
