package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// GetEmployee fetches one employee. An empty id means the session employee.
func (c *Client) GetEmployee(ctx context.Context, id model.ID) (*model.Employee, error) {
	emp, err := c.employeeOrSelf(id)
	if err != nil {
		return nil, err
	}
	e, err := getJSON[model.Employee](ctx, c, pathf("/employees/%s", emp))
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.Employee](ctx, c, pathf("/employees/organization/%s", org))
}

func (c *Client) CreateEmployee(ctx context.Context, req EmployeeRequest) (*model.Employee, error) {
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	e, err := sendJSON[model.Employee](ctx, c, http.MethodPost, "/employees", req)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id model.ID, req EmployeeRequest) (*model.Employee, error) {
	if err := requireID("employee", id); err != nil {
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
	e, err := sendJSON[model.Employee](ctx, c, http.MethodPut, pathf("/employees/%s", id.String()), req)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id model.ID) (*model.Employee, error) {
	if err := requireID("employee", id); err != nil {
		return nil, err
	}
	return deleteJSON[model.Employee](ctx, c, pathf("/employees/%s", id.String()))
}
