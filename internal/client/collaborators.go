package client

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// CollaboratorsClient implements ghapi.CollaboratorsClient.
type CollaboratorsClient struct {
	conn *Connection
}

// NewCollaboratorsClient creates a new collaborators client.
func NewCollaboratorsClient(conn *Connection) *CollaboratorsClient {
	return &CollaboratorsClient{conn: conn}
}

// List lists collaborators of a repository.
func (c *CollaboratorsClient) List(ctx context.Context, owner, name string, options *ghapi.APIOptions) ([]ghapi.User, error) {
	return list[ghapi.User](ctx, c.conn, at(EndpointCollaborators, owner, name), nil, options)
}

// IsCollaborator answers with 204 for members and 404 otherwise.
func (c *CollaboratorsClient) IsCollaborator(ctx context.Context, owner, name, login string) (bool, error) {
	resp, err := call[ghapi.Empty](ctx, c.conn, at(EndpointCollaborator, owner, name, login), nil,
		WithExpectedStatus(http.StatusNoContent, http.StatusNotFound))
	if err != nil {
		return false, err
	}

	return resp.StatusCode == http.StatusNoContent, nil
}

// Add invites a collaborator.
func (c *CollaboratorsClient) Add(ctx context.Context, owner, name, login string, request *ghapi.CollaboratorRequest) error {
	_, err := call[ghapi.Empty](ctx, c.conn, at(EndpointAddCollaborator, owner, name, login), request)

	return err
}
