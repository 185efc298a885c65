package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ListDepartments returns the departments of the session organization
func (c *Client) ListDepartments(ctx context.Context) ([]model.Department, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.Department](ctx, c, pathf("/departments/organization/%s", org))
}

// ListEmployeeDepartments returns the departments an employee belongs to.
// An empty employeeID means the session employee.
func (c *Client) ListEmployeeDepartments(ctx context.Context, employeeID model.ID) ([]model.Department, error) {
	emp, err := c.employeeOrSelf(employeeID)
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.Department](ctx, c, pathf("/departments/employee/%s", emp))
}

func (c *Client) CreateDepartment(ctx context.Context, req DepartmentRequest) (*model.Department, error) {
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	dep, err := sendJSON[model.Department](ctx, c, http.MethodPost, "/departments", req)
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id model.ID, req DepartmentRequest) (*model.Department, error) {
	if err := requireID("department", id); err != nil {
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
	dep, err := sendJSON[model.Department](ctx, c, http.MethodPut, pathf("/departments/%s", id.String()), req)
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

// DeleteDepartment returns the deleted department when the backend echoes it, nil otherwise
func (c *Client) DeleteDepartment(ctx context.Context, id model.ID) (*model.Department, error) {
	if err := requireID("department", id); err != nil {
		return nil, err
	}
	return deleteJSON[model.Department](ctx, c, pathf("/departments/%s", id.String()))
}
