package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
)

const DefaultPageLimit = 10

type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Role    model.Role
	EventID uint
	Status  string
}

func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// PanelBackend is the resource-specific half of a CRUD panel.
type PanelBackend[T, In any] interface {
	List(ctx context.Context, q ListQuery) (*model.Page[T], error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, in In) error
	Update(ctx context.Context, id uint, in In) error
	Delete(ctx context.Context, id uint) error
}

// DeleteGuard refuses a delete based on the current server copy of the row.
type DeleteGuard[T any] func(item *T) error

// Panel runs list/create/update/delete for one resource. Mutations return
// only an error: callers refetch the list through List afterwards, so the
// rendered list always reflects the backend.
type Panel[T, In any] struct {
	backend PanelBackend[T, In]
	guard   DeleteGuard[T]
}

func NewPanel[T, In any](backend PanelBackend[T, In], guard DeleteGuard[T]) *Panel[T, In] {
	return &Panel[T, In]{backend: backend, guard: guard}
}

func (p *Panel[T, In]) List(ctx context.Context, q ListQuery) (*model.Page[T], error) {
	return p.backend.List(ctx, q.normalized())
}

func (p *Panel[T, In]) Get(ctx context.Context, id uint) (*T, error) {
	return p.backend.Get(ctx, id)
}

func (p *Panel[T, In]) Create(ctx context.Context, in In) error {
	return p.backend.Create(ctx, in)
}

func (p *Panel[T, In]) Update(ctx context.Context, id uint, in In) error {
	return p.backend.Update(ctx, id, in)
}

// Delete requires an explicit confirmation and passes the guard before the
// delete call is issued.
func (p *Panel[T, In]) Delete(ctx context.Context, id uint, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if p.guard != nil {
		item, err := p.backend.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := p.guard(item); err != nil {
			return err
		}
	}
	return p.backend.Delete(ctx, id)
}

func ticketTypeDeleteGuard(tt *model.TicketType) error {
	if !tt.Deletable() {
		return ErrTicketTypeHasSales
	}
	return nil
}

// checkTotal keeps remaining at zero or more after an edit.
func checkTotal(tt *model.TicketType, total int) error {
	if total < tt.SoldQuantity {
		return fmt.Errorf("%w: %s has %d sold", ErrTotalBelowSold, tt.Name, tt.SoldQuantity)
	}
	return nil
}

// Events

type EventInput struct {
	Title       string
	Description string
	Venue       string
	EventDate   time.Time
	PosterURL   string
	TicketTypes []api.TicketTypeInput
}

type EventPanel = Panel[model.Event, EventInput]

type eventBackend struct {
	client *api.Client
	role   model.Role
}

var _ PanelBackend[model.Event, EventInput] = (*eventBackend)(nil)

// NewEventPanel lists every event for admins and only the caller's own events
// for organizers. Deletes go through the admin route for admins.
func NewEventPanel(client *api.Client, role model.Role) *EventPanel {
	return NewPanel[model.Event, EventInput](&eventBackend{client: client, role: role}, nil)
}

func (b *eventBackend) List(ctx context.Context, q ListQuery) (*model.Page[model.Event], error) {
	var (
		events []model.Event
		err    error
	)
	if model.MeetsRole(b.role, model.RoleAdmin) {
		events, err = b.client.ListEvents(ctx, api.ListEventsParams{Search: q.Search})
	} else {
		events, err = b.client.ListOrganizerEvents(ctx, q.Status)
	}
	if err != nil {
		return nil, err
	}
	page := model.SinglePage(FilterEvents(events, q.Search))
	return &page, nil
}

func (b *eventBackend) Get(ctx context.Context, id uint) (*model.Event, error) {
	return b.client.GetEvent(ctx, id)
}

func (b *eventBackend) Create(ctx context.Context, in EventInput) error {
	_, err := b.client.CreateEvent(ctx, api.CreateEventRequest{
		Title:       in.Title,
		Description: in.Description,
		Venue:       in.Venue,
		EventDate:   formatEventDate(in.EventDate),
		PosterURL:   in.PosterURL,
		TicketTypes: in.TicketTypes,
	})
	return err
}

// Update checks edited ticket types against a fresh copy of the event before
// sending anything.
func (b *eventBackend) Update(ctx context.Context, id uint, in EventInput) error {
	current, err := b.client.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	for _, tt := range in.TicketTypes {
		if tt.ID == 0 {
			continue
		}
		existing, ok := current.FindTicketType(tt.ID)
		if !ok {
			continue
		}
		if err := checkTotal(existing, tt.TotalQuantity); err != nil {
			return err
		}
	}
	_, err = b.client.UpdateOrganizerEvent(ctx, id, api.UpdateEventRequest{
		Title:       in.Title,
		Description: in.Description,
		Venue:       in.Venue,
		EventDate:   formatEventDate(in.EventDate),
		PosterURL:   in.PosterURL,
		TicketTypes: in.TicketTypes,
	})
	return err
}

func (b *eventBackend) Delete(ctx context.Context, id uint) error {
	var err error
	if model.MeetsRole(b.role, model.RoleAdmin) {
		_, err = b.client.DeleteAdminEvent(ctx, id)
	} else {
		_, err = b.client.DeleteOrganizerEvent(ctx, id)
	}
	return err
}

func formatEventDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FilterEvents keeps events whose title or venue contains the search term,
// case-insensitively.
func FilterEvents(events []model.Event, search string) []model.Event {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return events
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), search) || strings.Contains(strings.ToLower(e.Venue), search) {
			out = append(out, e)
		}
	}
	return out
}

// Users

type UserInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      model.Role
}

type UserPanel = Panel[model.User, UserInput]

type userBackend struct {
	client *api.Client
}

var _ PanelBackend[model.User, UserInput] = (*userBackend)(nil)

// NewUserPanel manages existing accounts. Accounts are created through registration.
func NewUserPanel(client *api.Client) *UserPanel {
	return NewPanel[model.User, UserInput](&userBackend{client: client}, nil)
}

func (b *userBackend) List(ctx context.Context, q ListQuery) (*model.Page[model.User], error) {
	return b.client.ListUsers(ctx, api.ListUsersParams{Page: q.Page, Limit: q.Limit, Role: q.Role, Search: q.Search})
}

func (b *userBackend) Get(ctx context.Context, id uint) (*model.User, error) {
	return b.client.GetUser(ctx, id)
}

func (b *userBackend) Create(context.Context, UserInput) error {
	return ErrPanelUnsupported
}

func (b *userBackend) Update(ctx context.Context, id uint, in UserInput) error {
	_, err := b.client.UpdateUser(ctx, id, api.UpdateUserRequest{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
	})
	return err
}

func (b *userBackend) Delete(ctx context.Context, id uint) error {
	_, err := b.client.DeleteUser(ctx, id)
	return err
}

// Organizers

type OrganizerInput struct {
	UserID      uint
	CompanyName string
}

type OrganizerPanel = Panel[model.Organizer, OrganizerInput]

type organizerBackend struct {
	client *api.Client
}

var _ PanelBackend[model.Organizer, OrganizerInput] = (*organizerBackend)(nil)

func NewOrganizerPanel(client *api.Client) *OrganizerPanel {
	return NewPanel[model.Organizer, OrganizerInput](&organizerBackend{client: client}, nil)
}

func (b *organizerBackend) List(ctx context.Context, q ListQuery) (*model.Page[model.Organizer], error) {
	return b.client.ListOrganizers(ctx, api.ListOrganizersParams{Page: q.Page, Limit: q.Limit, Search: q.Search})
}

func (b *organizerBackend) Get(ctx context.Context, id uint) (*model.Organizer, error) {
	return b.client.GetOrganizer(ctx, id)
}

func (b *organizerBackend) Create(ctx context.Context, in OrganizerInput) error {
	_, err := b.client.CreateOrganizer(ctx, api.CreateOrganizerRequest{UserID: in.UserID, CompanyName: in.CompanyName})
	return err
}

// Update only changes the company name; the owning user is fixed.
func (b *organizerBackend) Update(ctx context.Context, id uint, in OrganizerInput) error {
	_, err := b.client.UpdateOrganizer(ctx, id, api.UpdateOrganizerRequest{CompanyName: in.CompanyName})
	return err
}

func (b *organizerBackend) Delete(ctx context.Context, id uint) error {
	_, err := b.client.DeleteOrganizer(ctx, id)
	return err
}

// Ticket types

type TicketTypeInput struct {
	EventID       uint
	Name          string
	Price         decimal.Decimal
	TotalQuantity int
}

type TicketTypePanel = Panel[model.TicketType, TicketTypeInput]

type ticketTypeBackend struct {
	client *api.Client
}

var _ PanelBackend[model.TicketType, TicketTypeInput] = (*ticketTypeBackend)(nil)

// NewTicketTypePanel refuses to delete ticket types that have sales.
func NewTicketTypePanel(client *api.Client) *TicketTypePanel {
	return NewPanel[model.TicketType, TicketTypeInput](&ticketTypeBackend{client: client}, ticketTypeDeleteGuard)
}

func (b *ticketTypeBackend) List(ctx context.Context, q ListQuery) (*model.Page[model.TicketType], error) {
	return b.client.ListTicketTypes(ctx, api.ListTicketTypesParams{Page: q.Page, Limit: q.Limit, EventID: q.EventID, Search: q.Search})
}

func (b *ticketTypeBackend) Get(ctx context.Context, id uint) (*model.TicketType, error) {
	return b.client.GetTicketType(ctx, id)
}

func (b *ticketTypeBackend) Create(ctx context.Context, in TicketTypeInput) error {
	_, err := b.client.CreateTicketType(ctx, api.CreateTicketTypeRequest{
		EventID:       in.EventID,
		Name:          in.Name,
		Price:         in.Price,
		TotalQuantity: in.TotalQuantity,
	})
	return err
}

func (b *ticketTypeBackend) Update(ctx context.Context, id uint, in TicketTypeInput) error {
	current, err := b.client.GetTicketType(ctx, id)
	if err != nil {
		return err
	}
	if err := checkTotal(current, in.TotalQuantity); err != nil {
		return err
	}
	_, err = b.client.UpdateTicketType(ctx, id, api.UpdateTicketTypeRequest{
		Name:          in.Name,
		Price:         in.Price,
		TotalQuantity: in.TotalQuantity,
	})
	return err
}

func (b *ticketTypeBackend) Delete(ctx context.Context, id uint) error {
	_, err := b.client.DeleteTicketType(ctx, id)
	return err
}
