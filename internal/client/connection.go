package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

const tracerName = "github.com/fivetwenty-io/ghapi-client/internal/client"

// Connection executes typed requests over a shared transport. It holds no
// per-call state and is safe for concurrent use.
type Connection struct {
	transport *internalhttp.Client
	logger    ghapi.Logger
	tracer    trace.Tracer
}

// NewConnection creates a connection. Spans go to the global tracer provider,
// which is a no-op unless the application installs one.
func NewConnection(transport *internalhttp.Client, logger ghapi.Logger) *Connection {
	return &Connection{
		transport: transport,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// Transport returns the underlying HTTP transport.
func (c *Connection) Transport() *internalhttp.Client {
	return c.transport
}

type requestConfig struct {
	accept        string
	twoFactorCode string
	query         url.Values
	headers       map[string]string
	expected      []int
}

// RequestOption customizes a single request.
type RequestOption func(*requestConfig)

// WithAccept overrides the Accept header, e.g. for preview media types.
func WithAccept(mediaType string) RequestOption {
	return func(c *requestConfig) {
		c.accept = mediaType
	}
}

// WithTwoFactorCode sends a one-time password. The code is not validated.
func WithTwoFactorCode(code string) RequestOption {
	return func(c *requestConfig) {
		c.twoFactorCode = code
	}
}

// WithQuery adds query parameters.
func WithQuery(query url.Values) RequestOption {
	return func(c *requestConfig) {
		if c.query == nil {
			c.query = url.Values{}
		}

		for key, values := range query {
			c.query[key] = values
		}
	}
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}

		c.headers[key] = value
	}
}

// WithExpectedStatus replaces the accepted status set (2xx by default).
func WithExpectedStatus(codes ...int) RequestOption {
	return func(c *requestConfig) {
		c.expected = codes
	}
}

// withoutQuery drops query parameters so continuation links stay verbatim.
func withoutQuery() RequestOption {
	return func(c *requestConfig) {
		c.query = nil
	}
}

func (c *requestConfig) accepts(statusCode int) bool {
	if len(c.expected) > 0 {
		return slices.Contains(c.expected, statusCode)
	}

	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

type callIDKey struct{}

// withCallID tags ctx so every page of one logical call logs the same id.
func withCallID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(callIDKey{}).(string); ok {
		return ctx, id
	}

	id := uuid.NewString()

	return context.WithValue(ctx, callIDKey{}, id), id
}

// Execute performs one request and decodes the body into T. Statuses outside
// the accepted set are mapped to *ghapi.APIError; connection failures are
// returned as *ghapi.TransportError. Execute never retries.
func Execute[T any](ctx context.Context, conn *Connection, method, rawURL string, body interface{}, opts ...RequestOption) (*ghapi.Response[T], error) {
	cfg := &requestConfig{accept: constants.DefaultAcceptMediaType}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, callID := withCallID(ctx)

	ctx, span := conn.tracer.Start(ctx, "ghapi "+method, trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", rawURL),
		attribute.String("ghapi.call_id", callID),
	))
	defer span.End()

	headers := map[string]string{"Accept": cfg.accept}
	if cfg.twoFactorCode != "" {
		headers[constants.HeaderTwoFactor] = cfg.twoFactorCode
	}

	for key, value := range cfg.headers {
		headers[key] = value
	}

	raw, err := conn.transport.Do(ctx, &internalhttp.Request{
		Method:  method,
		Path:    rawURL,
		Query:   cfg.query,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		conn.log("Request failed", callID, method, rawURL, map[string]interface{}{"error": err.Error()})

		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", raw.StatusCode))

	if !cfg.accepts(raw.StatusCode) {
		apiErr := ghapi.MapError(raw.StatusCode, raw.Headers, raw.Body)
		span.SetStatus(codes.Error, apiErr.Kind.String())
		conn.log("Request rejected", callID, method, rawURL, map[string]interface{}{
			"status": raw.StatusCode,
			"kind":   apiErr.Kind.String(),
		})

		return nil, apiErr
	}

	decoded, err := decode[T](raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failure")

		return nil, err
	}

	return decoded, nil
}

func decode[T any](raw *internalhttp.Response) (*ghapi.Response[T], error) {
	envelope := &ghapi.Response[T]{
		StatusCode: raw.StatusCode,
		Headers:    raw.Headers,
		Raw:        raw.Body,
		Links:      ghapi.ParseLinks(raw.Headers),
		Rate:       ghapi.ParseRate(raw.Headers),
		Cached:     raw.Cached,
	}

	if _, empty := any(&envelope.Body).(*ghapi.Empty); empty {
		return envelope, nil
	}

	if len(bytes.TrimSpace(raw.Body)) == 0 {
		return envelope, nil
	}

	err := json.Unmarshal(raw.Body, &envelope.Body)
	if err != nil {
		return nil, &ghapi.APIError{
			Kind:       ghapi.KindGeneric,
			StatusCode: raw.StatusCode,
			Message:    fmt.Sprintf("decoding response body: %v", err),
			Headers:    raw.Headers,
			Body:       raw.Body,
			Err:        err,
		}
	}

	return envelope, nil
}

func (c *Connection) log(msg, callID, method, rawURL string, fields map[string]interface{}) {
	if c.logger == nil {
		return
	}

	fields["call_id"] = callID
	fields["method"] = method
	fields["url"] = rawURL

	c.logger.Debug(msg, fields)
}

// Get performs a GET and decodes the body into T.
func Get[T any](ctx context.Context, conn *Connection, rawURL string, opts ...RequestOption) (*ghapi.Response[T], error) {
	return Execute[T](ctx, conn, http.MethodGet, rawURL, nil, opts...)
}

// Post performs a POST with a JSON body.
func Post[T any](ctx context.Context, conn *Connection, rawURL string, body interface{}, opts ...RequestOption) (*ghapi.Response[T], error) {
	return Execute[T](ctx, conn, http.MethodPost, rawURL, body, opts...)
}

// Put performs a PUT with a JSON body.
func Put[T any](ctx context.Context, conn *Connection, rawURL string, body interface{}, opts ...RequestOption) (*ghapi.Response[T], error) {
	return Execute[T](ctx, conn, http.MethodPut, rawURL, body, opts...)
}

// Patch performs a PATCH with a JSON body.
func Patch[T any](ctx context.Context, conn *Connection, rawURL string, body interface{}, opts ...RequestOption) (*ghapi.Response[T], error) {
	return Execute[T](ctx, conn, http.MethodPatch, rawURL, body, opts...)
}

// Delete performs a DELETE. body may be nil.
func Delete(ctx context.Context, conn *Connection, rawURL string, body interface{}, opts ...RequestOption) (*ghapi.Response[ghapi.Empty], error) {
	return Execute[ghapi.Empty](ctx, conn, http.MethodDelete, rawURL, body, opts...)
}
