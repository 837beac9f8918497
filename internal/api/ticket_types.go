package api

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

type ListTicketTypesParams struct {
	Page    int
	Limit   int
	EventID uint
	Search  string
}

type CreateTicketTypeRequest struct {
	EventID       uint            `json:"eventId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int             `json:"totalQuantity"`
}

type UpdateTicketTypeRequest struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int             `json:"totalQuantity"`
}

// GET /ticket-types
func (c *Client) ListTicketTypes(ctx context.Context, params ListTicketTypesParams) (*model.Page[model.TicketType], error) {
	v := url.Values{}
	setInt(v, "page", params.Page)
	setInt(v, "limit", params.Limit)
	setInt(v, "eventId", int(params.EventID))
	setString(v, "search", params.Search)
	var page model.Page[model.TicketType]
	if err := c.get(ctx, "/ticket-types", v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GET /ticket-types/:id
func (c *Client) GetTicketType(ctx context.Context, id uint) (*model.TicketType, error) {
	var tt model.TicketType
	if err := c.get(ctx, idPath("/ticket-types", id), nil, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

// POST /ticket-types
func (c *Client) CreateTicketType(ctx context.Context, req CreateTicketTypeRequest) (*model.TicketType, error) {
	var tt model.TicketType
	if err := c.post(ctx, "/ticket-types", req, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

// PUT /ticket-types/:id
func (c *Client) UpdateTicketType(ctx context.Context, id uint, req UpdateTicketTypeRequest) (*model.TicketType, error) {
	var tt model.TicketType
	if err := c.put(ctx, idPath("/ticket-types", id), req, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

// DeleteTicketType fails on the backend once the type has sales. DELETE /ticket-types/:id
func (c *Client) DeleteTicketType(ctx context.Context, id uint) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.delete(ctx, idPath("/ticket-types", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
