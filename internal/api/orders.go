package api

import (
	"context"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

type PurchaseItem struct {
	TicketTypeID uint `json:"ticketTypeId"`
	Quantity     int  `json:"quantity"`
}

type PurchaseRequest struct {
	Items []PurchaseItem `json:"items"`
}

type PurchaseResponse struct {
	Success bool   `json:"success"`
	OrderID uint   `json:"orderId"`
	Message string `json:"message"`
}

// Purchase creates an order. POST /orders/purchase
func (c *Client) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResponse, error) {
	var resp PurchaseResponse
	if err := c.post(ctx, "/orders/purchase", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GET /orders/my-orders
func (c *Client) MyOrders(ctx context.Context) ([]model.Order, error) {
	return c.listOrders(ctx, "/orders/my-orders")
}

// GetOrder only returns the caller's own orders. GET /orders/:id
func (c *Client) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := c.get(ctx, idPath("/orders", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GET /organizer/orders
func (c *Client) OrganizerOrders(ctx context.Context) ([]model.Order, error) {
	return c.listOrders(ctx, "/organizer/orders")
}

// GET /admin/orders
func (c *Client) AdminOrders(ctx context.Context) ([]model.Order, error) {
	return c.listOrders(ctx, "/admin/orders")
}

func (c *Client) listOrders(ctx context.Context, path string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.get(ctx, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
