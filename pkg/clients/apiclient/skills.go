package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

func (c *Client) ListSkills(ctx context.Context) ([]model.Skill, error) {
	org, err := c.identity.OrganizationID()
	if err != nil {
		return nil, err
	}
	return getJSON[[]model.Skill](ctx, c, pathf("/skills/organization/%s", org))
}

func (c *Client) GetSkill(ctx context.Context, id model.ID) (*model.Skill, error) {
	if err := requireID("skill", id); err != nil {
		return nil, err
	}
	skill, err := getJSON[model.Skill](ctx, c, pathf("/skills/%s", id.String()))
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (c *Client) CreateSkill(ctx context.Context, req SkillRequest) (*model.Skill, error) {
	org, err := c.orgOrSession(req.OrganizationID)
	if err != nil {
		return nil, err
	}
	req.OrganizationID = org
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	skill, err := sendJSON[model.Skill](ctx, c, http.MethodPost, "/skills", req)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (c *Client) UpdateSkill(ctx context.Context, id model.ID, req SkillRequest) (*model.Skill, error) {
	if err := requireID("skill", id); err != nil {
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
	skill, err := sendJSON[model.Skill](ctx, c, http.MethodPut, pathf("/skills/%s", id.String()), req)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (c *Client) DeleteSkill(ctx context.Context, id model.ID) (*model.Skill, error) {
	if err := requireID("skill", id); err != nil {
		return nil, err
	}
	return deleteJSON[model.Skill](ctx, c, pathf("/skills/%s", id.String()))
}
