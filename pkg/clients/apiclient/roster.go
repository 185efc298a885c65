package apiclient

import (
	"context"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ListRosterAssignments returns the shifts an employee is assigned to.
// An empty employeeID means the session employee.
func (c *Client) ListRosterAssignments(ctx context.Context, employeeID model.ID) ([]model.RosterAssignment, error) {
	emp, err := c.employeeOrSelf(employeeID)
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.RosterAssignment](ctx, c, pathf("/rosterAssignments/employee/%s", emp))
}
