package apiclient

import (
	"fmt"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// employeeOrSelf returns id, or the session employee when id is empty
func (c *Client) employeeOrSelf(id model.ID) (string, error) {
	if id != "" {
		return id.String(), nil
	}
	return c.identity.EmployeeID()
}

// orgOrSession returns id, or the session organization when id is empty
func (c *Client) orgOrSession(id model.ID) (model.ID, error) {
	if id != "" {
		return id, nil
	}
	org, err := c.identity.OrganizationID()
	if err != nil {
		return "", err
	}
	return model.ID(org), nil
}

func requireID(kind string, id model.ID) error {
	if id == "" {
		return fmt.Errorf("%w: %s id is required", ErrInvalidPayload, kind)
	}
	return nil
}
