package domain

import (
	"context"
	"sync"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
)

const (
	MinPurchaseQuantity = 1
	MaxPurchaseQuantity = 10
)

type PurchaseState int

const (
	StateSelectingTicket PurchaseState = iota
	StateQuantityChosen
	StateSubmitting
	StateSucceeded
)

func (s PurchaseState) String() string {
	switch s {
	case StateSelectingTicket:
		return "selecting_ticket"
	case StateQuantityChosen:
		return "quantity_chosen"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	}
	return "unknown"
}

// Purchaser places an order. *api.Client implements it.
type Purchaser interface {
	Purchase(ctx context.Context, req api.PurchaseRequest) (*api.PurchaseResponse, error)
}

var _ Purchaser = (*api.Client)(nil)

// PurchaseFlow drives one purchase attempt against the last fetched snapshot
// of an event. A failed submission returns the flow to StateQuantityChosen.
type PurchaseFlow struct {
	mu sync.Mutex

	event      *model.Event
	state      PurchaseState
	ticketType *model.TicketType
	quantity   int
	orderID    uint
	lastErr    error
}

func NewPurchaseFlow(event *model.Event) *PurchaseFlow {
	return &PurchaseFlow{
		event:    event,
		state:    StateSelectingTicket,
		quantity: MinPurchaseQuantity,
	}
}

// Select picks a ticket type. Unknown and sold-out ticket types are rejected.
func (f *PurchaseFlow) Select(ticketTypeID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return ErrAlreadySubmitting
	}
	tt, ok := f.event.FindTicketType(ticketTypeID)
	if !ok || tt.SoldOut() {
		return ErrTicketUnavailable
	}
	f.ticketType = tt
	f.state = StateQuantityChosen
	return nil
}

func (f *PurchaseFlow) SetQuantity(n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return ErrAlreadySubmitting
	}
	if f.ticketType == nil {
		return ErrTicketNotSelected
	}
	if n < MinPurchaseQuantity || n > MaxPurchaseQuantity {
		return ErrInvalidQuantity
	}
	f.quantity = n
	f.state = StateQuantityChosen
	return nil
}

// Submit sends a single-item purchase. The remaining-quantity check runs
// before any call to the purchaser and is advisory; the backend decides.
func (f *PurchaseFlow) Submit(ctx context.Context, purchaser Purchaser) (uint, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return 0, ErrAlreadySubmitting
	}
	if f.ticketType == nil {
		f.mu.Unlock()
		return 0, ErrTicketNotSelected
	}
	if f.quantity > f.ticketType.Remaining() {
		f.lastErr = ErrInsufficientRemaining
		f.mu.Unlock()
		return 0, ErrInsufficientRemaining
	}
	req := api.PurchaseRequest{
		Items: []api.PurchaseItem{{TicketTypeID: f.ticketType.ID, Quantity: f.quantity}},
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	resp, err := purchaser.Purchase(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateQuantityChosen
		f.lastErr = err
		return 0, err
	}
	f.state = StateSucceeded
	f.orderID = resp.OrderID
	f.lastErr = nil
	return resp.OrderID, nil
}

func (f *PurchaseFlow) State() PurchaseState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *PurchaseFlow) TicketType() *model.TicketType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticketType
}

func (f *PurchaseFlow) Quantity() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quantity
}

func (f *PurchaseFlow) OrderID() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// Err reports the most recent failed submission, if any.
func (f *PurchaseFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}
