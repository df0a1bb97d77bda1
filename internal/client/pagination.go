package client

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// PageResult is one page delivered by StreamPages. Err is set on the last
// result when the sequence failed.
type PageResult[T any] struct {
	Page  int
	Items []T
	Err   error
}

// GetAll fetches rawURL and follows rel="next" links, concatenating items in
// fetch order. It stops when no next link is present or options.PageCount
// pages were fetched. Any page failure aborts the call with no partial list.
func GetAll[T any](ctx context.Context, conn *Connection, rawURL string, params *ghapi.QueryParams, options *ghapi.APIOptions, opts ...RequestOption) ([]T, error) {
	items := []T{}

	err := walkPages(ctx, conn, rawURL, params, options, opts, func(page int, pageItems []T) error {
		items = append(items, pageItems...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// StreamPages delivers pages on a channel as they are fetched. Page N+1 is
// requested only after page N was received by the consumer. The channel is
// closed after the last page or after a result carrying Err.
func StreamPages[T any](ctx context.Context, conn *Connection, rawURL string, params *ghapi.QueryParams, options *ghapi.APIOptions, opts ...RequestOption) <-chan PageResult[T] {
	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		err := walkPages(ctx, conn, rawURL, params, options, opts, func(page int, pageItems []T) error {
			select {
			case results <- PageResult[T]{Page: page, Items: pageItems}:
				return nil
			case <-ctx.Done():
				return fmt.Errorf("delivering page %d: %w", page, ctx.Err())
			}
		})
		if err != nil {
			select {
			case results <- PageResult[T]{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return results
}

func walkPages[T any](ctx context.Context, conn *Connection, rawURL string, params *ghapi.QueryParams, options *ghapi.APIOptions, opts []RequestOption, visit func(page int, items []T) error) error {
	err := options.Validate()
	if err != nil {
		return err
	}

	ctx, callID := withCallID(ctx)

	ctx, span := conn.tracer.Start(ctx, "ghapi paginate", trace.WithAttributes(
		attribute.String("url.full", rawURL),
		attribute.String("ghapi.call_id", callID),
	))
	defer span.End()

	query := params.ToValues()
	options.Apply(query)

	limit := options.PageLimit()
	pageOpts := append(append([]RequestOption{}, opts...), WithQuery(query))
	nextURL := rawURL
	fetched := 0

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(codes.Error, "canceled")

			return fmt.Errorf("fetching page %d: %w", fetched+1, ctxErr)
		}

		resp, err := Get[[]T](ctx, conn, nextURL, pageOpts...)
		if err != nil {
			span.SetStatus(codes.Error, "page failed")

			return err
		}

		fetched++

		err = visit(fetched, resp.Body)
		if err != nil {
			return err
		}

		next, ok := resp.Links.Next()
		if !ok || (limit > 0 && fetched >= limit) {
			break
		}

		nextURL = next
		pageOpts = append(append([]RequestOption{}, opts...), withoutQuery())
	}

	span.SetAttributes(attribute.Int("ghapi.pages", fetched))

	if conn.logger != nil {
		conn.logger.Debug("Pagination complete", map[string]interface{}{
			"call_id": callID,
			"url":     rawURL,
			"pages":   fetched,
		})
	}

	return nil
}
