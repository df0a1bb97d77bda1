package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// Endpoint names a row of the endpoint table.
type Endpoint string

// Endpoints used by the resource clients.
const (
	EndpointRepository              Endpoint = "repository"
	EndpointEditRepository          Endpoint = "edit_repository"
	EndpointDeleteRepository        Endpoint = "delete_repository"
	EndpointCurrentUserRepositories Endpoint = "current_user_repositories"
	EndpointCreateRepository        Endpoint = "create_repository"
	EndpointCreateOrgRepository     Endpoint = "create_org_repository"
	EndpointUserRepositories        Endpoint = "user_repositories"
	EndpointOrgRepositories         Endpoint = "org_repositories"
	EndpointIssue                   Endpoint = "issue"
	EndpointIssues                  Endpoint = "issues"
	EndpointCreateIssue             Endpoint = "create_issue"
	EndpointUpdateIssue             Endpoint = "update_issue"
	EndpointRelease                 Endpoint = "release"
	EndpointReleases                Endpoint = "releases"
	EndpointCreateRelease           Endpoint = "create_release"
	EndpointDeleteRelease           Endpoint = "delete_release"
	EndpointCollaborators           Endpoint = "collaborators"
	EndpointCollaborator            Endpoint = "collaborator"
	EndpointAddCollaborator         Endpoint = "add_collaborator"
	EndpointCurrentUser             Endpoint = "current_user"
	EndpointUser                    Endpoint = "user"
	EndpointAuthorizations          Endpoint = "authorizations"
	EndpointAuthorizationForApp     Endpoint = "authorization_for_app"
	EndpointRateLimit               Endpoint = "rate_limit"
)

// Route is the verb and path template of an endpoint. Placeholders
// are written {name} and filled in order.
type Route struct {
	Method   string
	Template string
}

var endpointTable = map[Endpoint]Route{
	EndpointRepository:              {http.MethodGet, "/repos/{owner}/{repo}"},
	EndpointEditRepository:          {http.MethodPatch, "/repos/{owner}/{repo}"},
	EndpointDeleteRepository:        {http.MethodDelete, "/repos/{owner}/{repo}"},
	EndpointCurrentUserRepositories: {http.MethodGet, "/user/repos"},
	EndpointCreateRepository:        {http.MethodPost, "/user/repos"},
	EndpointCreateOrgRepository:     {http.MethodPost, "/orgs/{org}/repos"},
	EndpointUserRepositories:        {http.MethodGet, "/users/{username}/repos"},
	EndpointOrgRepositories:         {http.MethodGet, "/orgs/{org}/repos"},
	EndpointIssue:                   {http.MethodGet, "/repos/{owner}/{repo}/issues/{number}"},
	EndpointIssues:                  {http.MethodGet, "/repos/{owner}/{repo}/issues"},
	EndpointCreateIssue:             {http.MethodPost, "/repos/{owner}/{repo}/issues"},
	EndpointUpdateIssue:             {http.MethodPatch, "/repos/{owner}/{repo}/issues/{number}"},
	EndpointRelease:                 {http.MethodGet, "/repos/{owner}/{repo}/releases/{id}"},
	EndpointReleases:                {http.MethodGet, "/repos/{owner}/{repo}/releases"},
	EndpointCreateRelease:           {http.MethodPost, "/repos/{owner}/{repo}/releases"},
	EndpointDeleteRelease:           {http.MethodDelete, "/repos/{owner}/{repo}/releases/{id}"},
	EndpointCollaborators:           {http.MethodGet, "/repos/{owner}/{repo}/collaborators"},
	EndpointCollaborator:            {http.MethodGet, "/repos/{owner}/{repo}/collaborators/{username}"},
	EndpointAddCollaborator:         {http.MethodPut, "/repos/{owner}/{repo}/collaborators/{username}"},
	EndpointCurrentUser:             {http.MethodGet, "/user"},
	EndpointUser:                    {http.MethodGet, "/users/{username}"},
	EndpointAuthorizations:          {http.MethodGet, "/authorizations"},
	EndpointAuthorizationForApp:     {http.MethodPut, "/authorizations/clients/{client_id}"},
	EndpointRateLimit:               {http.MethodGet, "/rate_limit"},
}

// Lookup returns the table row for endpoint.
func Lookup(endpoint Endpoint) (Route, error) {
	route, ok := endpointTable[endpoint]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ghapi.ErrUnknownEndpoint, endpoint)
	}

	return route, nil
}

// URL fills the endpoint's template with args, path-escaping each one. It
// is a pure function of its inputs.
func URL(endpoint Endpoint, args ...string) (string, error) {
	route, err := Lookup(endpoint)
	if err != nil {
		return "", err
	}

	var builder strings.Builder

	rest := route.Template
	used := 0

	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			builder.WriteString(rest)

			break
		}

		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			builder.WriteString(rest)

			break
		}

		name := rest[start+1 : start+end]
		if used >= len(args) || args[used] == "" {
			return "", fmt.Errorf("%w: %s needs {%s}", ghapi.ErrMissingURLArgument, endpoint, name)
		}

		builder.WriteString(rest[:start])
		builder.WriteString(url.PathEscape(args[used]))

		used++
		rest = rest[start+end+1:]
	}

	if used != len(args) {
		return "", fmt.Errorf("%w: %s takes %d arguments, got %d", ghapi.ErrUnexpectedURLArgument, endpoint, used, len(args))
	}

	return builder.String(), nil
}
