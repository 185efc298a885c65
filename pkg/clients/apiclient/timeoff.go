package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

func (c *Client) ListTimeOff(ctx context.Context, employeeID model.ID) ([]model.TimeOffRequest, error) {
	emp, err := c.employeeOrSelf(employeeID)
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.TimeOffRequest](ctx, c, pathf("/timeOffRequests/employee/%s", emp))
}

func (c *Client) CreateTimeOff(ctx context.Context, req TimeOffPayload) (*model.TimeOffRequest, error) {
	emp, err := c.employeeOrSelf(req.EmployeeID)
	if err != nil {
		return nil, err
	}
	req.EmployeeID = model.ID(emp)
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	// both are YYYY-MM-DD so string order is date order
	if req.EndDate < req.StartDate {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidPayload, req.EndDate, req.StartDate)
	}
	r, err := sendJSON[model.TimeOffRequest](ctx, c, http.MethodPost, "/timeOffRequests", req)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ApproveTimeOff(ctx context.Context, id model.ID, approved bool) (*model.TimeOffRequest, error) {
	if err := requireID("time-off request", id); err != nil {
		return nil, err
	}
	path := pathf("/timeOffRequests/%s/approve/%s", id.String(), strconv.FormatBool(approved))
	return sendOptionalJSON[model.TimeOffRequest](ctx, c, http.MethodPut, path, nil)
}
