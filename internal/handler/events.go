package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

const eventDateInput = "2006-01-02T15:04"

type eventForm struct {
	Title       string      `form:"title" binding:"required"`
	Description string      `form:"description"`
	Venue       string      `form:"venue" binding:"required"`
	EventDate   string      `form:"event_date" binding:"required"`
	PosterURL   string      `form:"poster_url" binding:"omitempty,url"`
	TicketTypes []ticketRow `form:"-"`
}

// ticketRow is one line of the ticket type table on the event form. Prices
// and quantities stay strings so a rejected form re-renders what was typed.
// SoldQuantity is echoed back for display; updates are checked against the
// backend's own count.
type ticketRow struct {
	ID            string
	Name          string
	Price         string
	TotalQuantity string
	SoldQuantity  int
}

func (h *Handler) CreateEventForm(ctx *gin.Context) {
	h.renderEventForm(ctx, http.StatusOK, "Create event", "/create-event", eventForm{}, "")
}

func (h *Handler) CreateEvent(ctx *gin.Context) {
	form, in, err := bindEventForm(ctx)
	if err != nil {
		h.renderEventForm(ctx, errorStatus(err), "Create event", "/create-event", form, errorMessage(err, ""))
		return
	}
	if err := h.eventPanel(ctx).Create(ctx.Request.Context(), in); err != nil {
		h.renderEventForm(ctx, errorStatus(err), "Create event", "/create-event", form, errorMessage(err, "Could not create the event."))
		return
	}
	redirectWithNotice(ctx, "/organizer/dashboard", "event_created")
}

func (h *Handler) EditEventForm(ctx *gin.Context) {
	event, ok := h.loadEvent(ctx)
	if !ok {
		return
	}
	form := eventForm{
		Title:       event.Title,
		Description: event.Description,
		Venue:       event.Venue,
		EventDate:   event.EventDate.InputValue(),
		PosterURL:   event.PosterURL,
	}
	for _, tt := range event.TicketTypes {
		form.TicketTypes = append(form.TicketTypes, ticketRow{
			ID:            model.FormatID(tt.ID),
			Name:          tt.Name,
			Price:         tt.Price.String(),
			TotalQuantity: strconv.Itoa(tt.TotalQuantity),
			SoldQuantity:  tt.SoldQuantity,
		})
	}
	h.renderEventForm(ctx, http.StatusOK, "Edit "+event.Title, editEventPath(event.ID), form, "")
}

func (h *Handler) EditEvent(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		redirectWithNotice(ctx, "/", "event_not_found")
		return
	}
	form, in, err := bindEventForm(ctx)
	if err != nil {
		h.renderEventForm(ctx, errorStatus(err), "Edit event", editEventPath(id), form, errorMessage(err, ""))
		return
	}
	if err := h.eventPanel(ctx).Update(ctx.Request.Context(), id, in); err != nil {
		h.renderEventForm(ctx, errorStatus(err), "Edit event", editEventPath(id), form, errorMessage(err, "Could not update the event."))
		return
	}
	redirectWithNotice(ctx, "/organizer/dashboard", "event_updated")
}

func (h *Handler) ConfirmDeleteEvent(ctx *gin.Context) {
	event, ok := h.loadEvent(ctx)
	if !ok {
		return
	}
	h.renderConfirm(ctx, confirmation{
		Title:   "Delete event",
		Message: fmt.Sprintf("Delete %q? This cannot be undone.", event.Title),
		Action:  "/organizer/events/" + model.FormatID(event.ID) + "/delete",
		Cancel:  "/organizer/dashboard",
	})
}

// DeleteEvent deletes through the admin route for admins and the organizer
// route otherwise, then shows the refetched dashboard.
func (h *Handler) DeleteEvent(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	err := h.eventPanel(ctx).Delete(ctx.Request.Context(), id, confirmed(ctx))
	if err != nil {
		h.renderOrganizerDashboard(ctx, errorStatus(err), errorMessage(err, "Could not delete the event."))
		return
	}
	redirectWithNotice(ctx, "/organizer/dashboard", "event_deleted")
}

func (h *Handler) eventPanel(ctx *gin.Context) *domain.EventPanel {
	return domain.NewEventPanel(h.client(ctx), currentSession(ctx).Role())
}

func editEventPath(id uint) string {
	return "/event/" + model.FormatID(id) + "/edit"
}

// bindEventForm reads the event fields and the parallel ticket_* arrays.
// Rows with every field blank are dropped.
func bindEventForm(ctx *gin.Context) (eventForm, domain.EventInput, error) {
	var form eventForm
	bindErr := ctx.ShouldBind(&form)

	ids := ctx.PostFormArray("ticket_id")
	names := ctx.PostFormArray("ticket_name")
	prices := ctx.PostFormArray("ticket_price")
	quantities := ctx.PostFormArray("ticket_quantity")
	sold := ctx.PostFormArray("ticket_sold")
	for i := range names {
		row := ticketRow{
			Name:          strings.TrimSpace(names[i]),
			Price:         strings.TrimSpace(at(prices, i)),
			TotalQuantity: strings.TrimSpace(at(quantities, i)),
			ID:            strings.TrimSpace(at(ids, i)),
		}
		row.SoldQuantity, _ = strconv.Atoi(at(sold, i))
		if row.Name == "" && row.Price == "" && row.TotalQuantity == "" {
			continue
		}
		form.TicketTypes = append(form.TicketTypes, row)
	}
	if bindErr != nil {
		return form, domain.EventInput{}, bindErr
	}

	date, err := time.ParseInLocation(eventDateInput, form.EventDate, time.Local)
	if err != nil {
		return form, domain.EventInput{}, fmt.Errorf("%w: event date must look like 2025-12-31T19:30", errFormInvalid)
	}
	if len(form.TicketTypes) == 0 {
		return form, domain.EventInput{}, fmt.Errorf("%w: add at least one ticket type", errFormInvalid)
	}

	in := domain.EventInput{
		Title:       strings.TrimSpace(form.Title),
		Description: form.Description,
		Venue:       strings.TrimSpace(form.Venue),
		EventDate:   date,
		PosterURL:   strings.TrimSpace(form.PosterURL),
	}
	for i, row := range form.TicketTypes {
		tt, err := row.input()
		if err != nil {
			return form, domain.EventInput{}, fmt.Errorf("%w: ticket type %d: %s", errFormInvalid, i+1, err)
		}
		in.TicketTypes = append(in.TicketTypes, tt)
	}
	return form, in, nil
}

func (r ticketRow) input() (api.TicketTypeInput, error) {
	if r.Name == "" {
		return api.TicketTypeInput{}, errors.New("name is required")
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return api.TicketTypeInput{}, errors.New("price must be a number of 0 or more")
	}
	qty, err := strconv.Atoi(r.TotalQuantity)
	if err != nil || qty < 1 {
		return api.TicketTypeInput{}, errors.New("quantity must be at least 1")
	}
	in := api.TicketTypeInput{Name: r.Name, Price: price, TotalQuantity: qty}
	if r.ID != "" {
		id, err := strconv.ParseUint(r.ID, 10, 64)
		if err != nil {
			return api.TicketTypeInput{}, errors.New("unknown ticket type")
		}
		in.ID = uint(id)
	}
	return in, nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func (h *Handler) renderEventForm(ctx *gin.Context, status int, title, action string, form eventForm, errMsg string) {
	h.render(ctx, status, "event_form.tmpl", title, gin.H{
		"Form":   form,
		"Action": action,
		"Error":  errMsg,
	})
}
