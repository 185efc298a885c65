package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

func (c *Client) ListRoles(ctx context.Context) ([]model.Role, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.Role](ctx, c, pathf("/roles/organization/%s", org))
}

func (c *Client) GetRole(ctx context.Context, id model.ID) (*model.Role, error) {
	if err := requireID("role", id); err != nil {
		return nil, err
	}
	role, err := getJSON[model.Role](ctx, c, pathf("/roles/%s", id.String()))
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (c *Client) CreateRole(ctx context.Context, req RoleRequest) (*model.Role, error) {
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	role, err := sendJSON[model.Role](ctx, c, http.MethodPost, "/roles", req)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (c *Client) UpdateRole(ctx context.Context, id model.ID, req RoleRequest) (*model.Role, error) {
	if err := requireID("role", id); err != nil {
		return nil, err
	}
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	role, err := sendJSON[model.Role](ctx, c, http.MethodPut, pathf("/roles/%s", id.String()), req)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (c *Client) DeleteRole(ctx context.Context, id model.ID) (*model.Role, error) {
	if err := requireID("role", id); err != nil {
		return nil, err
	}
	return deleteJSON[model.Role](ctx, c, pathf("/roles/%s", id.String()))
}
