package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ListCreatedShifts returns every shift the session organization has published
func (c *Client) ListCreatedShifts(ctx context.Context) ([]model.Shift, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.Shift](ctx, c, pathf("/shifts/%s/created", org))
}

// CurrentSchedule returns the current schedule of a department.
// An empty departmentID means the session department.
func (c *Client) CurrentSchedule(ctx context.Context, departmentID model.ID) ([]model.Shift, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	dep := departmentID.String()
	if dep == "" {
		if dep, err = c.identity.DepartmentID(); err != nil {
			return nil, err
		}
	}
	return getJSON[[]model.Shift](ctx, c, pathf("/shifts/%s/%s/current/schedule", org, dep))
}

func (c *Client) GetShift(ctx context.Context, id model.ID) (*model.Shift, error) {
	if err := requireID("shift", id); err != nil {
		return nil, err
	}
	s, err := getJSON[model.Shift](ctx, c, pathf("/shifts/%s", id.String()))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateShift publishes a shift
func (c *Client) CreateShift(ctx context.Context, req ShiftRequest) (*model.Shift, error) {
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	s, err := sendJSON[model.Shift](ctx, c, http.MethodPost, "/shifts/create", req)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateShift(ctx context.Context, id model.ID, req ShiftRequest) (*model.Shift, error) {
	if err := requireID("shift", id); err != nil {
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
	s, err := sendJSON[model.Shift](ctx, c, http.MethodPut, pathf("/shifts/%s", id.String()), req)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteShift(ctx context.Context, id model.ID) (*model.Shift, error) {
	if err := requireID("shift", id); err != nil {
		return nil, err
	}
	return deleteJSON[model.Shift](ctx, c, pathf("/shifts/%s/delete", id.String()))
}
