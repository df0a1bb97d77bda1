// Package ghclient provides the primary entry point for constructing a
// GitHub REST API client that implements the ghapi.Client interface.
//
// It layers configuration, HTTP transport, authentication, interceptors and
// caching on top of the resource interfaces and types defined in the ghapi
// package. Most applications should import ghclient to build a client, then
// use the returned ghapi.Client to access resource-specific clients, for
// example Repositories(), Issues(), Releases(), etc.
//
// # Quick start
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
//
//	  // Anonymous access to api.github.com.
//	  cli, err := ghclient.New(ctx, &ghapi.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a personal access token against GitHub Enterprise:
//	  cli, err = ghclient.New(ctx, &ghapi.Config{
//	    BaseURL: "https://ghe.example.com/api/v3",
//	    Token:   "ghp_...",
//	  })
//
//	  user, err := cli.Users().Current(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = user
//	}
//
// # Endpoints without a resource client
//
// GetRaw and GetAllRaw reach any GET endpoint through the same executor and
// pagination engine, returning items as json.RawMessage.
//
// # Two-factor authentication
//
// With basic auth, accounts that have two-factor enabled answer with an
// error for which ghapi.IsTwoFactorRequired reports true. Prompt the user and
// call the same operation again with the code (for example
// Authorizations().GetOrCreateForAppWithCode). The client never retries on
// its own.
package ghclient
