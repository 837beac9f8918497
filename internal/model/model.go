package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Identity is the authenticated user as held by a browser session.
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type Event struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Venue       string       `json:"venue"`
	EventDate   Timestamp    `json:"event_date"`
	PosterURL   string       `json:"poster_url"`
	TicketTypes []TicketType `json:"ticket_types,omitempty"`
}

// FindTicketType returns the ticket type with the given id from the event snapshot.
func (e *Event) FindTicketType(id uint) (*TicketType, bool) {
	for i := range e.TicketTypes {
		if e.TicketTypes[i].ID == id {
			return &e.TicketTypes[i], true
		}
	}
	return nil, false
}

func (e *Event) Upcoming(now time.Time) bool {
	return e.EventDate.After(now)
}

type TicketType struct {
	ID            uint            `json:"id"`
	EventID       uint            `json:"event_id,omitempty"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int             `json:"total_quantity"`
	SoldQuantity  int             `json:"sold_quantity"`
	CreatedAt     Timestamp       `json:"created_at"`
	EventTitle    string          `json:"event_title,omitempty"`
	OrganizerID   uint            `json:"organizer_id,omitempty"`
}

// Remaining is total minus sold as last seen by this process. The backend
// holds the authoritative count.
func (t TicketType) Remaining() int {
	return t.TotalQuantity - t.SoldQuantity
}

func (t TicketType) SoldOut() bool {
	return t.Remaining() <= 0
}

// Deletable reports whether the ticket type has no sales yet.
func (t TicketType) Deletable() bool {
	return t.SoldQuantity == 0
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
)

type Order struct {
	ID          uint            `json:"id"`
	OrderCode   string          `json:"order_code,omitempty"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   Timestamp       `json:"created_at"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"items"`
}

type OrderItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// DisplayCode is the order code, or "#<id>" for orders created before codes existed.
func (o Order) DisplayCode() string {
	if o.OrderCode != "" {
		return o.OrderCode
	}
	return "#" + FormatID(o.ID)
}

func (o Order) TicketCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Qty
	}
	return n
}

type Organizer struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	CompanyName string    `json:"company_name"`
	CreatedAt   Timestamp `json:"created_at"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Role        Role      `json:"role,omitempty"`
}

type User struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Name        string    `json:"name,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   Timestamp `json:"created_at"`
	OrganizerID *uint     `json:"organizer_id"`
	CompanyName *string   `json:"company_name"`
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" || u.LastName != "":
		return joinNonEmpty(u.FirstName, u.LastName)
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SinglePage wraps an unpaginated listing.
func SinglePage[T any](items []T) Page[T] {
	n := len(items)
	return Page[T]{
		Data:       items,
		Pagination: Pagination{Page: 1, Limit: n, Total: n, TotalPages: 1},
	}
}
