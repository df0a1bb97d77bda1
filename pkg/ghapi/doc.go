// Package ghapi provides types, interfaces, and helpers for working with the
// GitHub REST API.
//
// # Overview
//
// The ghapi package defines the response envelope, the error taxonomy, the
// pagination options and the resource client interfaces. A concrete
// implementation is provided by the ghclient package, which wires
// configuration, transport and authentication. Most consumers should import
// ghclient to construct a client and then use the interfaces exposed here.
//
// # Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
//	  "github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := ghclient.NewWithToken(ctx, "https://api.github.com", "ghp_...")
//	  if err != nil { log.Fatal(err) }
//
//	  // First two pages of 50 repositories each
//	  repos, err := cli.Repositories().ListForCurrent(ctx, nil, &ghapi.APIOptions{
//	    PageSize:  ghapi.Int(50),
//	    PageCount: ghapi.Int(2),
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = repos
//	}
//
// # Pagination
//
// List calls follow the Link header's next relation until it is absent or
// APIOptions.PageCount pages were fetched. Pages are fetched strictly in
// order and a failure on any page fails the whole call; no partial list is
// returned. Pass ghapi.NoOptions to fetch everything.
//
// # Errors
//
// Every non-2xx response becomes an *APIError whose Kind is one of
// NotFound, Unauthorized, TwoFactorRequired, ValidationFailed,
// RateLimitExceeded, AbuseDetected, Forbidden or Generic. Match with
// errors.Is against the Err* sentinels or use AsAPIError to read the
// kind-specific fields (Provider, FieldErrors, ResetAt, RetryAfter).
// Connection-level failures are *TransportError instead and wrap
// context.Canceled or context.DeadlineExceeded when applicable.
//
// # Interceptors and caching
//
// Interceptors run around every round trip (logging, headers, client-side
// throttling, Prometheus metrics). A Cache enables ETag revalidation of GET
// requests; each revalidation is still one round trip.
package ghapi
