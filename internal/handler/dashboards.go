package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) OrganizerDashboard(ctx *gin.Context) {
	h.renderOrganizerDashboard(ctx, http.StatusOK, "")
}

func (h *Handler) renderOrganizerDashboard(ctx *gin.Context, status int, errMsg string) {
	session := currentSession(ctx)
	dash := h.app.DashboardService.Organizer(ctx.Request.Context(), h.client(ctx), session.Role())
	title := "Organizer dashboard"
	if dash.AllEvents {
		title = "Events dashboard"
	}
	h.render(ctx, status, "organizer_dashboard.tmpl", title, gin.H{
		"Dashboard": dash,
		"Error":     errMsg,
	})
}

func (h *Handler) AdminDashboard(ctx *gin.Context) {
	dash := h.app.DashboardService.Admin(ctx.Request.Context(), h.client(ctx))
	h.render(ctx, http.StatusOK, "admin_dashboard.tmpl", "Admin dashboard", gin.H{
		"Dashboard": dash,
	})
}
