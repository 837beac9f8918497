package domain

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
)

type OrganizerDashboard struct {
	Stats  model.DashboardStats
	Events []model.Event
	Orders []model.Order
	// AllEvents is set when an admin views the organizer dashboard.
	AllEvents bool
}

type AdminDashboard struct {
	Stats  model.DashboardStats
	Events []model.Event
	Users  []model.User
	Orders []model.Order
}

// DashboardService loads dashboard data. A failed fetch is logged and leaves
// its section empty; it never fails the whole view.
type DashboardService interface {
	Organizer(ctx context.Context, client *api.Client, role model.Role) OrganizerDashboard
	Admin(ctx context.Context, client *api.Client) AdminDashboard
}

type dashboardService struct {
	logger *zap.Logger
	now    func() time.Time
}

var _ DashboardService = (*dashboardService)(nil)

func NewDashboardService(logger *zap.Logger) *dashboardService {
	return &dashboardService{
		logger: logger,
		now:    time.Now,
	}
}

func (s *dashboardService) Organizer(ctx context.Context, client *api.Client, role model.Role) OrganizerDashboard {
	var (
		dash OrganizerDashboard
		err  error
	)
	dash.AllEvents = model.MeetsRole(role, model.RoleAdmin)

	if dash.AllEvents {
		dash.Events, err = client.ListEvents(ctx, api.ListEventsParams{})
	} else {
		dash.Events, err = client.ListOrganizerEvents(ctx, "")
	}
	s.warn(err, "events")

	if dash.AllEvents {
		dash.Orders, err = client.AdminOrders(ctx)
	} else {
		dash.Orders, err = client.OrganizerOrders(ctx)
	}
	s.warn(err, "orders")

	if dash.AllEvents {
		dash.Stats = model.AdminStats(dash.Events, dash.Orders, 0, s.now())
	} else {
		dash.Stats = model.OrganizerStats(dash.Events, dash.Orders, s.now())
	}
	return dash
}

func (s *dashboardService) Admin(ctx context.Context, client *api.Client) AdminDashboard {
	var (
		dash AdminDashboard
		err  error
	)
	dash.Events, err = client.ListEvents(ctx, api.ListEventsParams{})
	s.warn(err, "events")
	dash.Users, err = client.AdminUsers(ctx)
	s.warn(err, "users")
	dash.Orders, err = client.AdminOrders(ctx)
	s.warn(err, "orders")

	dash.Stats = model.AdminStats(dash.Events, dash.Orders, len(dash.Users), s.now())
	return dash
}

func (s *dashboardService) warn(err error, section string) {
	if err == nil {
		return
	}
	s.logger.Warn("dashboard fetch failed",
		zap.String("section", section),
		zap.Int("status", api.StatusCode(err)),
		zap.Error(err),
	)
}
