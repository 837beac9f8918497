package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalEvents      int
	UpcomingEvents   int
	TotalTicketsSold int
	TotalRevenue     decimal.Decimal
	TotalOrders      int
	TotalUsers       int
}

// OrganizerStats derives ticket and revenue totals from the organizer's own orders.
func OrganizerStats(events []Event, orders []Order, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalEvents:    len(events),
		UpcomingEvents: countUpcoming(events, now),
		TotalOrders:    len(orders),
		TotalRevenue:   decimal.Zero,
	}
	for _, order := range orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(order.TotalAmount)
		stats.TotalTicketsSold += order.TicketCount()
	}
	return stats
}

// AdminStats derives ticket and revenue totals from ticket type sales across all events.
func AdminStats(events []Event, orders []Order, users int, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalEvents:    len(events),
		UpcomingEvents: countUpcoming(events, now),
		TotalOrders:    len(orders),
		TotalUsers:     users,
		TotalRevenue:   decimal.Zero,
	}
	for _, event := range events {
		for _, tt := range event.TicketTypes {
			stats.TotalTicketsSold += tt.SoldQuantity
			stats.TotalRevenue = stats.TotalRevenue.Add(tt.Price.Mul(decimal.NewFromInt(int64(tt.SoldQuantity))))
		}
	}
	return stats
}

func countUpcoming(events []Event, now time.Time) int {
	n := 0
	for i := range events {
		if events[i].Upcoming(now) {
			n++
		}
	}
	return n
}
