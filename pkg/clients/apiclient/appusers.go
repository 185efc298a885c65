package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

func (c *Client) ListAppUsers(ctx context.Context) ([]model.AppUser, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.AppUser](ctx, c, pathf("/appUsers/organization/%s", org))
}

func (c *Client) GetAppUser(ctx context.Context, id model.ID) (*model.AppUser, error) {
	if err := requireID("app user", id); err != nil {
		return nil, err
	}
	u, err := getJSON[model.AppUser](ctx, c, pathf("/appUsers/%s", id.String()))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CurrentAppUser fetches the account of the session user
func (c *Client) CurrentAppUser(ctx context.Context) (*model.AppUser, error) {
	id, err := c.identity.UserID()
	if err != nil {
		return nil, err
	}
	return c.GetAppUser(ctx, model.ID(id))
}

func (c *Client) CreateAppUser(ctx context.Context, req AppUserRequest) (*model.AppUser, error) {
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	u, err := sendJSON[model.AppUser](ctx, c, http.MethodPost, "/appUsers", req)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateAppUser(ctx context.Context, id model.ID, req AppUserRequest) (*model.AppUser, error) {
	if err := requireID("app user", id); err != nil {
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
	u, err := sendJSON[model.AppUser](ctx, c, http.MethodPut, pathf("/appUsers/%s", id.String()), req)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteAppUser(ctx context.Context, id model.ID) (*model.AppUser, error) {
	if err := requireID("app user", id); err != nil {
		return nil, err
	}
	return deleteJSON[model.AppUser](ctx, c, pathf("/appUsers/%s", id.String()))
}
