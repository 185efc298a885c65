package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ListShiftSwaps returns swap requests made by or offered to an employee
func (c *Client) ListShiftSwaps(ctx context.Context, employeeID model.ID) ([]model.ShiftSwapRequest, error) {
	emp, err := c.employeeOrSelf(employeeID)
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.ShiftSwapRequest](ctx, c, pathf("/shiftSwaps/employee/%s", emp))
}

func (c *Client) CreateShiftSwap(ctx context.Context, req ShiftSwapPayload) (*model.ShiftSwapRequest, error) {
	emp, err := c.employeeOrSelf(req.RequesterID)
	if err != nil {
		return nil, err
	}
	req.RequesterID = model.ID(emp)
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	r, err := sendJSON[model.ShiftSwapRequest](ctx, c, http.MethodPost, "/shiftSwaps", req)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ApproveShiftSwap(ctx context.Context, id model.ID, approved bool) (*model.ShiftSwapRequest, error) {
	if err := requireID("shift swap", id); err != nil {
		return nil, err
	}
	path := pathf("/shiftSwaps/%s/approve/%s", id.String(), strconv.FormatBool(approved))
	return sendOptionalJSON[model.ShiftSwapRequest](ctx, c, http.MethodPut, path, nil)
}
