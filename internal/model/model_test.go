package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetsRole(t *testing.T) {
	for _, actual := range Roles {
		for _, required := range Roles {
			want := actual.Level() >= required.Level()
			assert.Equal(t, want, MeetsRole(actual, required), "%s vs %s", actual, required)
		}
	}
	assert.True(t, MeetsRole(RoleAdmin, RoleOrganizer))
	assert.False(t, MeetsRole(RoleUser, RoleOrganizer))
	assert.True(t, MeetsRole(RoleUser, ""))
	assert.False(t, MeetsRole(Role("GUEST"), RoleUser))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" organizer ")
	assert.True(t, ok)
	assert.Equal(t, RoleOrganizer, r)

	_, ok = ParseRole("root")
	assert.False(t, ok)
}

func TestTicketTypeRemaining(t *testing.T) {
	tt := TicketType{TotalQuantity: 100, SoldQuantity: 95}
	assert.Equal(t, 5, tt.Remaining())
	assert.False(t, tt.SoldOut())
	assert.False(t, tt.Deletable())

	assert.True(t, TicketType{TotalQuantity: 10, SoldQuantity: 10}.SoldOut())
	assert.True(t, TicketType{TotalQuantity: 10}.Deletable())
	assert.False(t, TicketType{TotalQuantity: 10, SoldQuantity: 1}.Deletable())
}

func TestOrderDecodesNumericAndStringAmounts(t *testing.T) {
	var orders []Order
	body := `[
		{"id": 1, "status": "PAID", "total_amount": 1500, "created_at": "2025-03-01T10:00:00.000Z", "items": [{"name": "VIP", "qty": 1}]},
		{"id": 2, "order_code": "ORD-2", "status": "PENDING", "total_amount": "3000.50", "created_at": "2025-03-01 10:00:00", "items": [{"name": "GA", "qty": 2}]}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &orders))
	require.Len(t, orders, 2)

	assert.True(t, decimal.NewFromInt(1500).Equal(orders[0].TotalAmount))
	assert.True(t, decimal.RequireFromString("3000.50").Equal(orders[1].TotalAmount))
	assert.Equal(t, "#1", orders[0].DisplayCode())
	assert.Equal(t, "ORD-2", orders[1].DisplayCode())
	assert.Equal(t, 2, orders[1].TicketCount())
	assert.Equal(t, 2025, orders[1].CreatedAt.Year())
}

func TestTimestampNullAndEmpty(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "event_date": null}`), &e))
	assert.True(t, e.EventDate.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "event_date": ""}`), &e))
	assert.True(t, e.EventDate.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`{"event_date": "next tuesday"}`), &e))
}

func TestDashboardStats(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future, _ := ParseTimestamp("2025-06-01T20:00:00Z")
	past, _ := ParseTimestamp("2024-06-01T20:00:00Z")

	events := []Event{
		{ID: 1, EventDate: future, TicketTypes: []TicketType{
			{Name: "VIP", Price: decimal.NewFromInt(1500), TotalQuantity: 50, SoldQuantity: 2},
			{Name: "GA", Price: decimal.NewFromInt(500), TotalQuantity: 200, SoldQuantity: 10},
		}},
		{ID: 2, EventDate: past},
	}
	orders := []Order{
		{ID: 1, TotalAmount: decimal.NewFromInt(3000), Items: []OrderItem{{Name: "VIP", Qty: 2}}},
		{ID: 2, TotalAmount: decimal.NewFromInt(5000), Items: []OrderItem{{Name: "GA", Qty: 10}}},
	}

	admin := AdminStats(events, orders, 7, now)
	assert.Equal(t, 2, admin.TotalEvents)
	assert.Equal(t, 1, admin.UpcomingEvents)
	assert.Equal(t, 12, admin.TotalTicketsSold)
	assert.True(t, decimal.NewFromInt(8000).Equal(admin.TotalRevenue))
	assert.Equal(t, 7, admin.TotalUsers)

	org := OrganizerStats(events, orders[:1], now)
	assert.Equal(t, 2, org.TotalTicketsSold)
	assert.True(t, decimal.NewFromInt(3000).Equal(org.TotalRevenue))
	assert.Equal(t, 1, org.TotalOrders)
}
