package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ListContractTypes returns the contract types of the session organization.
// The backend puts the organization before the resource segment on this route.
func (c *Client) ListContractTypes(ctx context.Context) ([]model.ContractType, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.ContractType](ctx, c, pathf("/contractTypes/%s/organization", org))
}

func (c *Client) GetContractType(ctx context.Context, id model.ID) (*model.ContractType, error) {
	if err := requireID("contract type", id); err != nil {
		return nil, err
	}
	ct, err := getJSON[model.ContractType](ctx, c, pathf("/contractTypes/%s", id.String()))
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (c *Client) CreateContractType(ctx context.Context, req ContractTypeRequest) (*model.ContractType, error) {
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	ct, err := sendJSON[model.ContractType](ctx, c, http.MethodPost, "/contractTypes", req)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (c *Client) UpdateContractType(ctx context.Context, id model.ID, req ContractTypeRequest) (*model.ContractType, error) {
	if err := requireID("contract type", id); err != nil {
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
	ct, err := sendJSON[model.ContractType](ctx, c, http.MethodPut, pathf("/contractTypes/%s", id.String()), req)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (c *Client) DeleteContractType(ctx context.Context, id model.ID) (*model.ContractType, error) {
	if err := requireID("contract type", id); err != nil {
		return nil, err
	}
	return deleteJSON[model.ContractType](ctx, c, pathf("/contractTypes/%s", id.String()))
}
