package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

var eventSorts = map[string]bool{"date_asc": true, "date_desc": true, "title_asc": true, "title_desc": true}

func (h *Handler) Home(ctx *gin.Context) {
	search := ctx.Query("search")
	sort := ctx.Query("sort")
	if !eventSorts[sort] {
		sort = ""
	}

	events, err := h.client(ctx).ListEvents(ctx.Request.Context(), api.ListEventsParams{Search: search, Sort: sort})
	var loadErr string
	if err != nil {
		h.app.Logger.Warn("failed to list events", zap.Error(err))
		loadErr = errorMessage(err, "Could not load events.")
	}

	h.render(ctx, http.StatusOK, "home.tmpl", "Concerts", gin.H{
		"Events": domain.FilterEvents(events, search),
		"Search": search,
		"Sort":   sort,
		"Error":  loadErr,
	})
}

func (h *Handler) EventDetail(ctx *gin.Context) {
	event, ok := h.loadEvent(ctx)
	if !ok {
		return
	}
	h.renderEvent(ctx, http.StatusOK, event, purchaseForm{Quantity: domain.MinPurchaseQuantity}, "")
}

type purchaseForm struct {
	TicketTypeID uint `form:"ticket_type_id" binding:"required"`
	Quantity     int  `form:"quantity" binding:"required,gte=1,lte=10"`
}

// Purchase submits one purchase against a fresh snapshot of the event. On
// success the confirmation page forwards to the order history.
func (h *Handler) Purchase(ctx *gin.Context) {
	session := currentSession(ctx)
	if !session.Authenticated() {
		redirectWithNotice(ctx, "/login", "login_required")
		return
	}
	event, ok := h.loadEvent(ctx)
	if !ok {
		return
	}

	var form purchaseForm
	if err := ctx.ShouldBind(&form); err != nil {
		h.renderEvent(ctx, errorStatus(err), event, form, errorMessage(err, ""))
		return
	}

	flow, err := h.app.PurchaseWorkflow.Purchase(ctx.Request.Context(), event, session.Identity,
		h.client(ctx), form.TicketTypeID, form.Quantity)
	if err != nil {
		msg := errorMessage(err, "Purchase failed. Please try again.")
		if errors.Is(err, domain.ErrInsufficientRemaining) {
			if tt := flow.TicketType(); tt != nil {
				msg = fmt.Sprintf("Not enough tickets left (%d remaining).", tt.Remaining())
			}
		}
		h.renderEvent(ctx, errorStatus(err), event, form, msg)
		return
	}

	h.render(ctx, http.StatusOK, "purchase_success.tmpl", "Purchase complete", gin.H{
		"Event":      event,
		"TicketType": flow.TicketType(),
		"Quantity":   flow.Quantity(),
		"OrderID":    flow.OrderID(),
		"Redirect":   "/my-orders",
	})
}

func (h *Handler) loadEvent(ctx *gin.Context) (*model.Event, bool) {
	id, ok := parseID(ctx)
	if !ok {
		redirectWithNotice(ctx, "/", "event_not_found")
		return nil, false
	}
	event, err := h.client(ctx).GetEvent(ctx.Request.Context(), id)
	if err != nil {
		if !api.IsNotFound(err) {
			h.app.Logger.Warn("failed to load event", zap.Uint("event_id", id), zap.Error(err))
		}
		redirectWithNotice(ctx, "/", "event_not_found")
		return nil, false
	}
	return event, true
}

func (h *Handler) renderEvent(ctx *gin.Context, status int, event *model.Event, form purchaseForm, errMsg string) {
	h.render(ctx, status, "event.tmpl", event.Title, gin.H{
		"Event":       event,
		"Form":        form,
		"MaxQuantity": domain.MaxPurchaseQuantity,
		"Error":       errMsg,
	})
}
