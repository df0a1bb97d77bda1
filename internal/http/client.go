// Package http is the transport layer: it performs exactly one HTTP round
// trip per call (unless retries are configured), applies credentials and
// interceptors, and revalidates cached GETs with ETags.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/ghapi-client/internal/auth"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// Client is the HTTP transport shared by all resource clients.
type Client struct {
	baseURL       string
	httpClient    *retryablehttp.Client
	authenticator auth.Authenticator
	logger        ghapi.Logger
	debug         bool
	userAgent     string
	interceptors  *ghapi.InterceptorChain
	cache         ghapi.Cache
	cacheTTL      time.Duration
}

// Request represents an HTTP request. Path is either relative to the base
// URL or an absolute URL, which is used verbatim (pagination links).
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Response represents an HTTP response of any status.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// Cached is set when the body was served from the cache after a 304.
	Cached bool
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger ghapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithRetryConfig enables retries of 429, connection errors and 5xx other
// than 501.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWaitMin
		c.httpClient.RetryWaitMax = retryWaitMax
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds every single round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to share a
// connection pool or install a custom RoundTripper.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *ghapi.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache enables ETag revalidation of GET requests.
func WithCache(cache ghapi.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient creates a new HTTP client. A nil authenticator sends anonymous
// requests.
func NewClient(baseURL string, authenticator auth.Authenticator, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    retryClient,
		authenticator: authenticator,
		userAgent:     constants.DefaultUserAgent,
		cacheTTL:      constants.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs an HTTP request. Non-2xx statuses are returned as responses,
// not errors; errors are always *ghapi.TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.resolveURL(req)
	if err != nil {
		return nil, &ghapi.TransportError{Method: req.Method, URL: req.Path, Err: err}
	}

	var body []byte

	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, &ghapi.TransportError{Method: req.Method, URL: fullURL, Err: fmt.Errorf("marshaling request body: %w", err)}
		}
	}

	headers := make(http.Header)
	headers.Set("User-Agent", c.userAgent)
	headers.Set("Accept", constants.DefaultAcceptMediaType)

	if body != nil {
		headers.Set("Content-Type", constants.JSONContentType)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	if c.authenticator != nil {
		err = c.authenticator.Apply(ctx, headers)
		if err != nil {
			return nil, &ghapi.TransportError{Method: req.Method, URL: fullURL, Err: fmt.Errorf("applying credentials: %w", err)}
		}
	}

	view := &ghapi.Request{
		Method:   req.Method,
		URL:      fullURL,
		Headers:  headers,
		Metadata: map[string]interface{}{"start": time.Now()},
	}

	if c.interceptors != nil {
		err = c.interceptors.BeforeSend(ctx, view)
		if err != nil {
			return nil, &ghapi.TransportError{Method: req.Method, URL: fullURL, Err: err}
		}
	}

	cached, cacheKey := c.lookupCache(ctx, view)
	if cached != nil && cached.ETag != "" {
		view.Headers.Set(constants.HeaderIfNoneMatch, cached.ETag)
	}

	resp, err := c.roundTrip(ctx, view, body)

	if c.interceptors != nil {
		respView := &ghapi.RoundTripResponse{Error: err}
		if resp != nil {
			respView.StatusCode = resp.StatusCode
			respView.Headers = resp.Headers
		}

		// Interceptor errors after the fact never mask the round trip's outcome.
		_ = c.interceptors.AfterReceive(ctx, view, respView)
	}

	if err != nil {
		return nil, err
	}

	return c.reconcileCache(ctx, cacheKey, cached, resp), nil
}

func (c *Client) roundTrip(ctx context.Context, view *ghapi.Request, body []byte) (*Response, error) {
	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, view.Method, view.URL, rawBody)
	if err != nil {
		return nil, &ghapi.TransportError{Method: view.Method, URL: view.URL, Err: fmt.Errorf("creating request: %w", err)}
	}

	httpReq.Header = view.Headers

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":  view.Method,
			"url":     view.URL,
			"headers": redactHeaders(view.Headers),
			"body":    string(body),
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}

		return nil, &ghapi.TransportError{Method: view.Method, URL: view.URL, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}

		return nil, &ghapi.TransportError{Method: view.Method, URL: view.URL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":  httpResp.StatusCode,
			"headers": httpResp.Header,
			"body":    string(respBody),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) resolveURL(req *Request) (string, error) {
	if strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://") {
		if len(req.Query) == 0 {
			return req.Path, nil
		}

		parsed, err := url.Parse(req.Path)
		if err != nil {
			return "", fmt.Errorf("parsing URL: %w", err)
		}

		query := parsed.Query()
		for key, values := range req.Query {
			query[key] = values
		}

		parsed.RawQuery = query.Encode()

		return parsed.String(), nil
	}

	fullURL := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")

	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}

		fullURL += separator + req.Query.Encode()
	}

	return fullURL, nil
}

func (c *Client) lookupCache(ctx context.Context, view *ghapi.Request) (*ghapi.CacheEntry, string) {
	if c.cache == nil || view.Method != http.MethodGet {
		return nil, ""
	}

	key := view.URL + " " + view.Headers.Get("Accept")

	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, key
	}

	return entry, key
}

// reconcileCache serves the cached body on 304 and stores fresh 200s that
// carry an ETag. The fresh response's headers always win so rate-limit
// information reflects the latest round trip.
func (c *Client) reconcileCache(ctx context.Context, key string, cached *ghapi.CacheEntry, resp *Response) *Response {
	if key == "" {
		return resp
	}

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		headers := cached.Headers.Clone()
		if headers == nil {
			headers = make(http.Header)
		}

		for name, values := range resp.Headers {
			headers[name] = values
		}

		if c.logger != nil {
			c.logger.Debug("Served from cache", map[string]interface{}{"etag": cached.ETag})
		}

		return &Response{
			StatusCode: cached.StatusCode,
			Headers:    headers,
			Body:       bytes.Clone(cached.Data),
			Cached:     true,
		}
	}

	etag := resp.Headers.Get(constants.HeaderETag)
	if resp.StatusCode == http.StatusOK && etag != "" {
		entry := &ghapi.CacheEntry{
			Data:       bytes.Clone(resp.Body),
			Headers:    resp.Headers.Clone(),
			StatusCode: resp.StatusCode,
			ETag:       etag,
		}

		if c.cacheTTL > 0 {
			entry.ExpiresAt = time.Now().Add(c.cacheTTL)
		}

		err := c.cache.Set(ctx, key, entry)
		if err != nil && c.logger != nil {
			c.logger.Warn("Failed to cache response", map[string]interface{}{"error": err.Error()})
		}
	}

	return resp
}

func redactHeaders(headers http.Header) http.Header {
	redacted := headers.Clone()
	for _, name := range []string{constants.HeaderAuthorization, constants.HeaderTwoFactor} {
		if redacted.Get(name) != "" {
			redacted.Set(name, constants.MaskedSecret)
		}
	}

	return redacted
}
