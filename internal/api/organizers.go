package api

import (
	"context"
	"net/url"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

type ListOrganizersParams struct {
	Page   int
	Limit  int
	Search string
}

type CreateOrganizerRequest struct {
	UserID      uint   `json:"userId"`
	CompanyName string `json:"companyName"`
}

type UpdateOrganizerRequest struct {
	CompanyName string `json:"companyName"`
}

// ListOrganizers. GET /organizers
func (c *Client) ListOrganizers(ctx context.Context, params ListOrganizersParams) (*model.Page[model.Organizer], error) {
	v := url.Values{}
	setInt(v, "page", params.Page)
	setInt(v, "limit", params.Limit)
	setString(v, "search", params.Search)
	var page model.Page[model.Organizer]
	if err := c.get(ctx, "/organizers", v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GET /organizers/:id
func (c *Client) GetOrganizer(ctx context.Context, id uint) (*model.Organizer, error) {
	var org model.Organizer
	if err := c.get(ctx, idPath("/organizers", id), nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// CreateOrganizer is admin only. POST /organizers
func (c *Client) CreateOrganizer(ctx context.Context, req CreateOrganizerRequest) (*model.Organizer, error) {
	var org model.Organizer
	if err := c.post(ctx, "/organizers", req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// UpdateOrganizer is admin only. PUT /organizers/:id
func (c *Client) UpdateOrganizer(ctx context.Context, id uint, req UpdateOrganizerRequest) (*model.Organizer, error) {
	var org model.Organizer
	if err := c.put(ctx, idPath("/organizers", id), req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// DeleteOrganizer is admin only. DELETE /organizers/:id
func (c *Client) DeleteOrganizer(ctx context.Context, id uint) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.delete(ctx, idPath("/organizers", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
