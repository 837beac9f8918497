package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

type TicketTypeInput struct {
	ID            uint            `json:"id,omitempty"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int             `json:"total_quantity"`
}

type CreateEventRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Venue       string            `json:"venue"`
	EventDate   string            `json:"eventDate"`
	PosterURL   string            `json:"posterUrl"`
	TicketTypes []TicketTypeInput `json:"ticketTypes"`
}

type CreateEventResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// UpdateEventRequest leaves zero fields out. Ticket types with an id are
// edited, the rest are added.
type UpdateEventRequest struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Venue       string            `json:"venue,omitempty"`
	EventDate   string            `json:"eventDate,omitempty"`
	PosterURL   string            `json:"posterUrl,omitempty"`
	TicketTypes []TicketTypeInput `json:"ticketTypes,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ListEventsParams struct {
	Page   int
	Limit  int
	Search string
	Sort   string // date_asc, date_desc, title_asc, title_desc
}

func (p ListEventsParams) values() url.Values {
	v := url.Values{}
	setInt(v, "page", p.Page)
	setInt(v, "limit", p.Limit)
	setString(v, "search", p.Search)
	setString(v, "sort", p.Sort)
	return v
}

// ListEvents is public. GET /events
func (c *Client) ListEvents(ctx context.Context, params ListEventsParams) ([]model.Event, error) {
	var events []model.Event
	if err := c.get(ctx, "/events", params.values(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent is public. GET /events/:id
func (c *Client) GetEvent(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := c.get(ctx, idPath("/events", id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent requires an organizer. POST /events
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*CreateEventResponse, error) {
	var resp CreateEventResponse
	if err := c.post(ctx, "/events", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOrganizerEvents returns the caller's own events. status is "published", "draft" or empty.
// GET /organizer/events
func (c *Client) ListOrganizerEvents(ctx context.Context, status string) ([]model.Event, error) {
	v := url.Values{}
	setString(v, "status", status)
	var events []model.Event
	if err := c.get(ctx, "/organizer/events", v, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// PUT /organizer/events/:id
func (c *Client) UpdateOrganizerEvent(ctx context.Context, id uint, req UpdateEventRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.put(ctx, idPath("/organizer/events", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DELETE /organizer/events/:id
func (c *Client) DeleteOrganizerEvent(ctx context.Context, id uint) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.delete(ctx, idPath("/organizer/events", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteAdminEvent removes any event. DELETE /admin/events/:id
func (c *Client) DeleteAdminEvent(ctx context.Context, id uint) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.delete(ctx, idPath("/admin/events", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}
