package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/app"
	"github.com/qs-lzh/concert-storefront/internal/model"
)

type Handler struct {
	app *app.App
}

func NewHandler(app *app.App) *Handler {
	return &Handler{
		app: app,
	}
}

// client returns a backend client authenticated as the request's browser session.
func (h *Handler) client(ctx *gin.Context) *api.Client {
	return h.app.SessionService.Client(currentSession(ctx).ID)
}

func NewRouter(app *app.App) (*gin.Engine, error) {
	h := NewHandler(app)

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(RequestLogger(app.Logger), Recovery(app.Logger))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s := r.Group("/", h.Sessions())
	s.GET("/", h.Home)
	s.GET("/event/:id", h.EventDetail)
	s.POST("/event/:id/purchase", h.Purchase)
	s.GET("/login", h.LoginForm)
	s.POST("/login", h.Login)
	s.GET("/register", h.RegisterForm)
	s.POST("/register", h.Register)
	s.POST("/logout", h.Logout)

	authed := s.Group("/", RequireIdentity())
	authed.GET("/my-orders", h.MyOrders)
	authed.GET("/order/:id", h.OrderDetail)
	authed.GET("/order/:id/payment", h.Payment)
	authed.POST("/order/:id/payment/slip", h.UploadSlip)
	authed.POST("/order/:id/payment/confirm", h.ConfirmPayment)
	authed.GET("/order/:id/slip", h.SlipImage)
	authed.GET("/profile", h.Profile)
	authed.POST("/profile", h.UpdateProfile)
	authed.POST("/profile/password", h.ChangePassword)

	organizer := s.Group("/", RequireRole(model.RoleOrganizer))
	organizer.GET("/create-event", h.CreateEventForm)
	organizer.POST("/create-event", h.CreateEvent)
	organizer.GET("/event/:id/edit", h.EditEventForm)
	organizer.POST("/event/:id/edit", h.EditEvent)
	organizer.GET("/organizer/dashboard", h.OrganizerDashboard)
	organizer.GET("/organizer/events/:id/delete", h.ConfirmDeleteEvent)
	organizer.POST("/organizer/events/:id/delete", h.DeleteEvent)
	organizer.GET("/organizer/ticket-types", h.TicketTypes)
	organizer.GET("/organizer/ticket-types/new", h.NewTicketTypeForm)
	organizer.POST("/organizer/ticket-types/new", h.CreateTicketType)
	organizer.GET("/organizer/ticket-types/:id/edit", h.EditTicketTypeForm)
	organizer.POST("/organizer/ticket-types/:id/edit", h.UpdateTicketType)
	organizer.GET("/organizer/ticket-types/:id/delete", h.ConfirmDeleteTicketType)
	organizer.POST("/organizer/ticket-types/:id/delete", h.DeleteTicketType)

	admin := s.Group("/admin", RequireRole(model.RoleAdmin))
	admin.GET("/dashboard", h.AdminDashboard)
	admin.GET("/users", h.Users)
	admin.GET("/users/:id/edit", h.EditUserForm)
	admin.POST("/users/:id/edit", h.UpdateUser)
	admin.GET("/users/:id/delete", h.ConfirmDeleteUser)
	admin.POST("/users/:id/delete", h.DeleteUser)
	admin.GET("/organizers", h.Organizers)
	admin.GET("/organizers/new", h.NewOrganizerForm)
	admin.POST("/organizers/new", h.CreateOrganizer)
	admin.GET("/organizers/:id/edit", h.EditOrganizerForm)
	admin.POST("/organizers/:id/edit", h.UpdateOrganizer)
	admin.GET("/organizers/:id/delete", h.ConfirmDeleteOrganizer)
	admin.POST("/organizers/:id/delete", h.DeleteOrganizer)

	r.NoRoute(h.Sessions(), h.notFound)

	return r, nil
}
