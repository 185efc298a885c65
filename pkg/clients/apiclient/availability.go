package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ListAvailability returns an employee's availability entries.
// An empty employeeID means the session employee.
func (c *Client) ListAvailability(ctx context.Context, employeeID model.ID) ([]model.AvailabilityEntry, error) {
	emp, err := c.employeeOrSelf(employeeID)
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.AvailabilityEntry](ctx, c, pathf("/employeeAvailabilities/employee/%s", emp))
}

func (c *Client) CreateAvailability(ctx context.Context, req AvailabilityRequest) (*model.AvailabilityEntry, error) {
	emp, err := c.employeeOrSelf(req.EmployeeID)
	if err != nil {
		return nil, err
	}
	req.EmployeeID = model.ID(emp)
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	if (req.StartTime == "") != (req.EndTime == "") {
		return nil, fmt.Errorf("%w: start and end time must be given together", ErrInvalidPayload)
	}
	entry, err := sendJSON[model.AvailabilityEntry](ctx, c, http.MethodPost, "/employeeAvailabilities", req)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ApproveAvailability records a decision on an entry. The updated entry is
// returned when the backend sends it back.
func (c *Client) ApproveAvailability(ctx context.Context, id model.ID, approved bool) (*model.AvailabilityEntry, error) {
	if err := requireID("availability", id); err != nil {
		return nil, err
	}
	path := pathf("/employeeAvailabilities/%s/approve/%s", id.String(), strconv.FormatBool(approved))
	return sendOptionalJSON[model.AvailabilityEntry](ctx, c, http.MethodPut, path, nil)
}
