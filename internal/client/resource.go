package client

import (
	"context"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// target is an endpoint with its path arguments.
type target struct {
	endpoint Endpoint
	args     []string
}

func at(endpoint Endpoint, args ...string) target {
	return target{endpoint: endpoint, args: args}
}

// call executes a table row with its own verb.
func call[T any](ctx context.Context, conn *Connection, r target, body interface{}, opts ...RequestOption) (*ghapi.Response[T], error) {
	def, err := Lookup(r.endpoint)
	if err != nil {
		return nil, err
	}

	path, err := URL(r.endpoint, r.args...)
	if err != nil {
		return nil, err
	}

	return Execute[T](ctx, conn, def.Method, path, body, opts...)
}

// one executes a table row and returns the decoded body.
func one[T any](ctx context.Context, conn *Connection, r target, body interface{}, opts ...RequestOption) (*T, error) {
	resp, err := call[T](ctx, conn, r, body, opts...)
	if err != nil {
		return nil, err
	}

	return &resp.Body, nil
}

// list paginates a GET table row.
func list[T any](ctx context.Context, conn *Connection, r target, params *ghapi.QueryParams, options *ghapi.APIOptions, opts ...RequestOption) ([]T, error) {
	path, err := URL(r.endpoint, r.args...)
	if err != nil {
		return nil, err
	}

	return GetAll[T](ctx, conn, path, params, options, opts...)
}

// TwoFactorChallenge runs fn, which must send code, and narrows an
// Unauthorized or TwoFactorRequired failure into a
// *ghapi.TwoFactorChallengeFailedError naming the rejected code. Without a
// code the error is returned unchanged so the caller can prompt for one.
func TwoFactorChallenge[T any](code string, fn func(opts ...RequestOption) (T, error)) (T, error) {
	if code == "" {
		return fn()
	}

	result, err := fn(WithTwoFactorCode(code))
	if err != nil && (ghapi.IsUnauthorized(err) || ghapi.IsTwoFactorRequired(err)) {
		var zero T

		return zero, &ghapi.TwoFactorChallengeFailedError{Code: code, Err: err}
	}

	return result, err
}
