package ghapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// Request is the view of an outgoing round trip given to interceptors.
type Request struct {
	Method   string
	URL      string
	Headers  http.Header
	Metadata map[string]interface{}
}

// RoundTripResponse is the view of a completed round trip given to interceptors.
// Error is set for transport failures, in which case StatusCode is zero.
type RoundTripResponse struct {
	StatusCode int
	Headers    http.Header
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *RoundTripResponse) error

// InterceptorChain holds the hooks run around every round trip. Hooks may be
// added while requests are in flight.
type InterceptorChain struct {
	mu     sync.RWMutex
	before []RequestInterceptor
	after  []ResponseInterceptor
}

// NewInterceptorChain returns an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// OnRequest appends hooks run before each request is sent.
func (c *InterceptorChain) OnRequest(interceptors ...RequestInterceptor) *InterceptorChain {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.before = append(c.before, interceptors...)

	return c
}

// OnResponse appends hooks run after each round trip, including failed ones.
func (c *InterceptorChain) OnResponse(interceptors ...ResponseInterceptor) *InterceptorChain {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.after = append(c.after, interceptors...)

	return c
}

// BeforeSend runs the request hooks in order. The first failure aborts the
// request.
func (c *InterceptorChain) BeforeSend(ctx context.Context, req *Request) error {
	c.mu.RLock()
	hooks := c.before
	c.mu.RUnlock()

	for _, hook := range hooks {
		err := hook(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// AfterReceive runs every response hook, even after one fails, and joins
// their errors.
func (c *InterceptorChain) AfterReceive(ctx context.Context, req *Request, resp *RoundTripResponse) error {
	c.mu.RLock()
	hooks := c.after
	c.mu.RUnlock()

	errs := make([]error, 0, len(hooks))

	for _, hook := range hooks {
		err := hook(ctx, req, resp)
		if err != nil {
			errs = append(errs, fmt.Errorf("response interceptor failed: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Common Interceptors

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses, including the quota left.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *RoundTripResponse) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL,
			"status_code": resp.StatusCode,
		}

		if resp.Headers != nil {
			fields["rate_remaining"] = ParseRate(resp.Headers).Remaining
		}

		switch {
		case resp.Error != nil:
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		case resp.StatusCode >= http.StatusBadRequest:
			logger.Warn("API Response", fields)
		default:
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// RateLimitInterceptor throttles requests client-side. It blocks until a
// token is available or ctx is done. A wait that cannot finish before the
// deadline fails at once with an error matching context.DeadlineExceeded.
func RateLimitInterceptor(requestsPerSecond float64, burst int) RequestInterceptor {
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(ctx context.Context, req *Request) error {
		err := limiter.Wait(ctx)
		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("waiting for rate limiter: %w", ctxErr)
		}

		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}

		return fmt.Errorf("waiting for rate limiter: %w", err)
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}
