package ghapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// Response is the envelope returned by every typed call. It is owned by the
// caller that issued the request.
type Response[T any] struct {
	StatusCode int
	Headers    http.Header
	Body       T
	Raw        []byte
	Links      Links
	Rate       Rate

	// Cached is set when the body was replayed from the revalidation cache
	// after a 304 Not Modified.
	Cached bool
}

// Empty is the body type of calls that return no content.
type Empty struct{}

// Rate is the quota state reported by the X-RateLimit-* headers.
type Rate struct {
	Limit     int       `json:"limit"     yaml:"limit"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Reset     time.Time `json:"reset"     yaml:"reset"`
}

// ParseRate reads the rate-limit headers. Missing headers leave fields zero.
func ParseRate(headers http.Header) Rate {
	var rate Rate

	if headers == nil {
		return rate
	}

	if limit, err := strconv.Atoi(headers.Get(constants.HeaderRateLimitLimit)); err == nil {
		rate.Limit = limit
	}

	if remaining, err := strconv.Atoi(headers.Get(constants.HeaderRateLimitRemaining)); err == nil {
		rate.Remaining = remaining
	}

	if reset, err := strconv.ParseInt(headers.Get(constants.HeaderRateLimitReset), 10, 64); err == nil {
		rate.Reset = time.Unix(reset, 0).UTC()
	}

	return rate
}

// Int returns a pointer to n, for optional fields such as APIOptions.PageSize.
func Int(n int) *int {
	return &n
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
