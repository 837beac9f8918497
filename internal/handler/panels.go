package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

type confirmation struct {
	Title   string
	Message string
	Action  string
	Cancel  string
}

func (h *Handler) renderConfirm(ctx *gin.Context, c confirmation) {
	h.render(ctx, http.StatusOK, "confirm.tmpl", c.Title, gin.H{"Confirm": c})
}

func confirmed(ctx *gin.Context) bool {
	return ctx.PostForm("confirm") == "yes"
}

func listQuery(ctx *gin.Context) domain.ListQuery {
	q := domain.ListQuery{
		Page:   queryInt(ctx, "page"),
		Limit:  queryInt(ctx, "limit"),
		Search: ctx.Query("search"),
	}
	if role, ok := model.ParseRole(ctx.Query("role")); ok {
		q.Role = role
	}
	if id := queryInt(ctx, "event_id"); id > 0 {
		q.EventID = uint(id)
	}
	return q
}

// filters keeps the list query in pagination links.
func filters(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" {
		v.Set("role", string(q.Role))
	}
	if q.EventID > 0 {
		v.Set("event_id", model.FormatID(q.EventID))
	}
	return v
}

func panelData[T any](page *model.Page[T], err error, q domain.ListQuery, base string) gin.H {
	data := gin.H{
		"Query":   q,
		"Filters": filters(q),
		"Base":    base,
	}
	if page != nil {
		data["Items"] = page.Data
		data["Pagination"] = page.Pagination
	}
	if err != nil {
		data["Error"] = errorMessage(err, "Could not load the list.")
	}
	return data
}

// Users

type userForm struct {
	Email     string `form:"email" binding:"required,email"`
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	Role      string `form:"role" binding:"required,oneof=USER ORGANIZER ADMIN"`
}

func (h *Handler) userPanel(ctx *gin.Context) *domain.UserPanel {
	return domain.NewUserPanel(h.client(ctx))
}

func (h *Handler) Users(ctx *gin.Context) {
	h.renderUsers(ctx, http.StatusOK, "")
}

func (h *Handler) renderUsers(ctx *gin.Context, status int, errMsg string) {
	q := listQuery(ctx)
	page, err := h.userPanel(ctx).List(ctx.Request.Context(), q)
	h.warnList(err, "users")
	data := panelData(page, err, q, "/admin/users")
	data["Roles"] = model.Roles
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(ctx, status, "users.tmpl", "Manage users", data)
}

func (h *Handler) EditUserForm(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	user, err := h.userPanel(ctx).Get(ctx.Request.Context(), id)
	if err != nil {
		h.renderUsers(ctx, errorStatus(err), errorMessage(err, "User not found."))
		return
	}
	h.renderUserForm(ctx, http.StatusOK, id, userForm{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}, "")
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	var form userForm
	if err := ctx.ShouldBind(&form); err != nil {
		h.renderUserForm(ctx, errorStatus(err), id, form, errorMessage(err, ""))
		return
	}
	err := h.userPanel(ctx).Update(ctx.Request.Context(), id, domain.UserInput{
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Role:      model.Role(form.Role),
	})
	if err != nil {
		h.renderUserForm(ctx, errorStatus(err), id, form, errorMessage(err, "Could not update the user."))
		return
	}
	redirectWithNotice(ctx, "/admin/users", "user_updated")
}

func (h *Handler) renderUserForm(ctx *gin.Context, status int, id uint, form userForm, errMsg string) {
	h.render(ctx, status, "user_form.tmpl", "Edit user", gin.H{
		"Form":   form,
		"Roles":  model.Roles,
		"Action": "/admin/users/" + model.FormatID(id) + "/edit",
		"Error":  errMsg,
	})
}

func (h *Handler) ConfirmDeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	h.renderConfirm(ctx, confirmation{
		Title:   "Delete user",
		Message: fmt.Sprintf("Delete user #%d? This cannot be undone.", id),
		Action:  "/admin/users/" + model.FormatID(id) + "/delete",
		Cancel:  "/admin/users",
	})
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	if err := h.userPanel(ctx).Delete(ctx.Request.Context(), id, confirmed(ctx)); err != nil {
		h.renderUsers(ctx, errorStatus(err), errorMessage(err, "Could not delete the user."))
		return
	}
	redirectWithNotice(ctx, "/admin/users", "user_deleted")
}

// Organizers

type organizerForm struct {
	UserID      uint   `form:"user_id"`
	CompanyName string `form:"company_name" binding:"required"`
}

func (h *Handler) organizerPanel(ctx *gin.Context) *domain.OrganizerPanel {
	return domain.NewOrganizerPanel(h.client(ctx))
}

func (h *Handler) Organizers(ctx *gin.Context) {
	h.renderOrganizers(ctx, http.StatusOK, "")
}

func (h *Handler) renderOrganizers(ctx *gin.Context, status int, errMsg string) {
	q := listQuery(ctx)
	page, err := h.organizerPanel(ctx).List(ctx.Request.Context(), q)
	h.warnList(err, "organizers")
	data := panelData(page, err, q, "/admin/organizers")
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(ctx, status, "organizers.tmpl", "Manage organizers", data)
}

func (h *Handler) NewOrganizerForm(ctx *gin.Context) {
	h.renderOrganizerForm(ctx, http.StatusOK, 0, organizerForm{}, "")
}

func (h *Handler) CreateOrganizer(ctx *gin.Context) {
	var form organizerForm
	err := ctx.ShouldBind(&form)
	if err == nil && form.UserID == 0 {
		err = fmt.Errorf("%w: choose an organizer account", errFormInvalid)
	}
	if err != nil {
		h.renderOrganizerForm(ctx, errorStatus(err), 0, form, errorMessage(err, ""))
		return
	}
	err = h.organizerPanel(ctx).Create(ctx.Request.Context(), domain.OrganizerInput{UserID: form.UserID, CompanyName: form.CompanyName})
	if err != nil {
		h.renderOrganizerForm(ctx, errorStatus(err), 0, form, errorMessage(err, "Could not create the organizer."))
		return
	}
	redirectWithNotice(ctx, "/admin/organizers", "organizer_saved")
}

func (h *Handler) EditOrganizerForm(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	org, err := h.organizerPanel(ctx).Get(ctx.Request.Context(), id)
	if err != nil {
		h.renderOrganizers(ctx, errorStatus(err), errorMessage(err, "Organizer not found."))
		return
	}
	h.renderOrganizerForm(ctx, http.StatusOK, id, organizerForm{UserID: org.UserID, CompanyName: org.CompanyName}, "")
}

func (h *Handler) UpdateOrganizer(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	var form organizerForm
	if err := ctx.ShouldBind(&form); err != nil {
		h.renderOrganizerForm(ctx, errorStatus(err), id, form, errorMessage(err, ""))
		return
	}
	err := h.organizerPanel(ctx).Update(ctx.Request.Context(), id, domain.OrganizerInput{CompanyName: form.CompanyName})
	if err != nil {
		h.renderOrganizerForm(ctx, errorStatus(err), id, form, errorMessage(err, "Could not update the organizer."))
		return
	}
	redirectWithNotice(ctx, "/admin/organizers", "organizer_saved")
}

// renderOrganizerForm offers ORGANIZER accounts as owners when creating.
func (h *Handler) renderOrganizerForm(ctx *gin.Context, status int, id uint, form organizerForm, errMsg string) {
	data := gin.H{
		"Form":  form,
		"Error": errMsg,
	}
	if id == 0 {
		data["Action"] = "/admin/organizers/new"
		page, err := h.userPanel(ctx).List(ctx.Request.Context(), domain.ListQuery{Role: model.RoleOrganizer, Limit: 100})
		h.warnList(err, "organizer accounts")
		if page != nil {
			data["Accounts"] = page.Data
		}
	} else {
		data["Action"] = "/admin/organizers/" + model.FormatID(id) + "/edit"
	}
	h.render(ctx, status, "organizer_form.tmpl", "Organizer", data)
}

func (h *Handler) ConfirmDeleteOrganizer(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	h.renderConfirm(ctx, confirmation{
		Title:   "Delete organizer",
		Message: fmt.Sprintf("Delete organizer #%d? The user account stays.", id),
		Action:  "/admin/organizers/" + model.FormatID(id) + "/delete",
		Cancel:  "/admin/organizers",
	})
}

func (h *Handler) DeleteOrganizer(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	if err := h.organizerPanel(ctx).Delete(ctx.Request.Context(), id, confirmed(ctx)); err != nil {
		h.renderOrganizers(ctx, errorStatus(err), errorMessage(err, "Could not delete the organizer."))
		return
	}
	redirectWithNotice(ctx, "/admin/organizers", "organizer_deleted")
}

// Ticket types

// ticketTypeForm carries SoldQuantity only to redraw the form; the panel
// checks totals against the backend's count.
type ticketTypeForm struct {
	EventID       uint   `form:"event_id"`
	Name          string `form:"name" binding:"required"`
	Price         string `form:"price" binding:"required"`
	TotalQuantity int    `form:"total_quantity" binding:"required,gte=1"`
	SoldQuantity  int    `form:"sold_quantity"`
}

func (f ticketTypeForm) input() (domain.TicketTypeInput, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil || price.IsNegative() {
		return domain.TicketTypeInput{}, fmt.Errorf("%w: price must be a number of 0 or more", errFormInvalid)
	}
	return domain.TicketTypeInput{
		EventID:       f.EventID,
		Name:          f.Name,
		Price:         price,
		TotalQuantity: f.TotalQuantity,
	}, nil
}

func (h *Handler) ticketTypePanel(ctx *gin.Context) *domain.TicketTypePanel {
	return domain.NewTicketTypePanel(h.client(ctx))
}

func (h *Handler) TicketTypes(ctx *gin.Context) {
	h.renderTicketTypes(ctx, http.StatusOK, "")
}

func (h *Handler) renderTicketTypes(ctx *gin.Context, status int, errMsg string) {
	q := listQuery(ctx)
	page, err := h.ticketTypePanel(ctx).List(ctx.Request.Context(), q)
	h.warnList(err, "ticket types")
	data := panelData(page, err, q, "/organizer/ticket-types")
	data["Events"] = h.eventChoices(ctx)
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(ctx, status, "ticket_types.tmpl", "Manage ticket types", data)
}

func (h *Handler) NewTicketTypeForm(ctx *gin.Context) {
	form := ticketTypeForm{}
	if id := queryInt(ctx, "event_id"); id > 0 {
		form.EventID = uint(id)
	}
	h.renderTicketTypeForm(ctx, http.StatusOK, 0, form, "")
}

func (h *Handler) CreateTicketType(ctx *gin.Context) {
	var form ticketTypeForm
	err := ctx.ShouldBind(&form)
	if err == nil && form.EventID == 0 {
		err = fmt.Errorf("%w: choose an event", errFormInvalid)
	}
	var in domain.TicketTypeInput
	if err == nil {
		in, err = form.input()
	}
	if err == nil {
		err = h.ticketTypePanel(ctx).Create(ctx.Request.Context(), in)
	}
	if err != nil {
		h.renderTicketTypeForm(ctx, errorStatus(err), 0, form, errorMessage(err, "Could not create the ticket type."))
		return
	}
	redirectWithNotice(ctx, "/organizer/ticket-types", "ticket_saved")
}

func (h *Handler) EditTicketTypeForm(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	tt, err := h.ticketTypePanel(ctx).Get(ctx.Request.Context(), id)
	if err != nil {
		h.renderTicketTypes(ctx, errorStatus(err), errorMessage(err, "Ticket type not found."))
		return
	}
	h.renderTicketTypeForm(ctx, http.StatusOK, id, ticketTypeForm{
		EventID:       tt.EventID,
		Name:          tt.Name,
		Price:         tt.Price.String(),
		TotalQuantity: tt.TotalQuantity,
		SoldQuantity:  tt.SoldQuantity,
	}, "")
}

func (h *Handler) UpdateTicketType(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	var form ticketTypeForm
	err := ctx.ShouldBind(&form)
	var in domain.TicketTypeInput
	if err == nil {
		in, err = form.input()
	}
	if err == nil {
		err = h.ticketTypePanel(ctx).Update(ctx.Request.Context(), id, in)
	}
	if err != nil {
		h.renderTicketTypeForm(ctx, errorStatus(err), id, form, errorMessage(err, "Could not update the ticket type."))
		return
	}
	redirectWithNotice(ctx, "/organizer/ticket-types", "ticket_saved")
}

func (h *Handler) renderTicketTypeForm(ctx *gin.Context, status int, id uint, form ticketTypeForm, errMsg string) {
	action := "/organizer/ticket-types/new"
	if id > 0 {
		action = "/organizer/ticket-types/" + model.FormatID(id) + "/edit"
	}
	h.render(ctx, status, "ticket_type_form.tmpl", "Ticket type", gin.H{
		"Form":    form,
		"Editing": id > 0,
		"Events":  h.eventChoices(ctx),
		"Action":  action,
		"Error":   errMsg,
	})
}

func (h *Handler) ConfirmDeleteTicketType(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	h.renderConfirm(ctx, confirmation{
		Title:   "Delete ticket type",
		Message: fmt.Sprintf("Delete ticket type #%d? Ticket types with sales cannot be deleted.", id),
		Action:  "/organizer/ticket-types/" + model.FormatID(id) + "/delete",
		Cancel:  "/organizer/ticket-types",
	})
}

func (h *Handler) DeleteTicketType(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	if err := h.ticketTypePanel(ctx).Delete(ctx.Request.Context(), id, confirmed(ctx)); err != nil {
		h.renderTicketTypes(ctx, errorStatus(err), errorMessage(err, "Could not delete the ticket type."))
		return
	}
	redirectWithNotice(ctx, "/organizer/ticket-types", "ticket_deleted")
}

// eventChoices lists the events a ticket type can belong to.
func (h *Handler) eventChoices(ctx *gin.Context) []model.Event {
	page, err := domain.NewEventPanel(h.client(ctx), currentSession(ctx).Role()).List(ctx.Request.Context(), domain.ListQuery{})
	h.warnList(err, "events")
	if page == nil {
		return nil
	}
	return page.Data
}

func (h *Handler) warnList(err error, what string) {
	if err != nil {
		h.app.Logger.Warn("failed to load "+what, zap.Int("status", api.StatusCode(err)), zap.Error(err))
	}
}
