package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", srv.Client())
}

func TestClientReadsTokenOnEveryCall(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	token := "first"
	authed := client.WithTokenSource(TokenSourceFunc(func(context.Context) (string, error) {
		return token, nil
	}))

	_, err := authed.MyOrders(context.Background())
	require.NoError(t, err)
	token = "second"
	_, err = authed.MyOrders(context.Background())
	require.NoError(t, err)
	token = ""
	_, err = authed.MyOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second", ""}, seen)
}

func TestClientSurfacesBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders/purchase":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success": false, "error": "Not enough tickets remaining"}`))
		case "/api/orders/9":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Order not found"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`<html>oops</html>`))
		}
	})
	ctx := context.Background()

	_, err := client.Purchase(ctx, PurchaseRequest{Items: []PurchaseItem{{TicketTypeID: 1, Quantity: 2}}})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	msg, ok := BackendMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Not enough tickets remaining", msg)

	_, err = client.GetOrder(ctx, 9)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))

	_, err = client.MyOrders(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	_, ok = BackendMessage(err)
	assert.False(t, ok)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.URL, srv.Client())
	srv.Close()

	_, err := client.ListEvents(context.Background(), ListEventsParams{})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestClientEncodesRequests(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/users":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "ORGANIZER", r.URL.Query().Get("role"))
			assert.False(t, r.URL.Query().Has("search"))
			w.Write([]byte(`{"data": [{"id": 5, "email": "o@x.io", "role": "ORGANIZER", "organizer_id": null}], "pagination": {"page": 2, "limit": 10, "total": 11, "totalPages": 2}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/events":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			tts := body["ticketTypes"].([]any)
			first := tts[0].(map[string]any)
			assert.Equal(t, "VIP", first["name"])
			assert.Equal(t, float64(1500), first["price"])
			assert.Equal(t, float64(50), first["total_quantity"])
			w.Write([]byte(`{"id": 77, "message": "created"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/admin/events/77":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/api/admin/users":
			w.Write([]byte(`[{"id": 9, "email": "u@x.io", "name": "Mali", "role": "USER"}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/admin/users/9":
			w.Write([]byte(`{"message": "deleted"}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	page, err := client.ListUsers(ctx, ListUsersParams{Page: 2, Role: model.RoleOrganizer})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Nil(t, page.Data[0].OrganizerID)
	assert.True(t, page.Pagination.HasPrev())
	assert.False(t, page.Pagination.HasNext())

	created, err := client.CreateEvent(ctx, CreateEventRequest{
		Title:       "Summer Fest",
		TicketTypes: []TicketTypeInput{{Name: "VIP", Price: decimal.NewFromInt(1500), TotalQuantity: 50}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(77), created.ID)

	_, err = client.DeleteAdminEvent(ctx, 77)
	require.NoError(t, err)

	users, err := client.AdminUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Mali", users[0].DisplayName())

	deleted, err := client.DeleteAdminUser(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "deleted", deleted.Message)
	assert.Equal(t, int32(5), calls.Load())
}

func TestVerifySlipUsesMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/payments/verify-slip", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "12", r.FormValue("order_id"))
		assert.Equal(t, "1500.5", r.FormValue("amount"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "slip.png", hdr.Filename)
		assert.Equal(t, "png-bytes", string(data))
		w.Write([]byte(`{"success": true, "message": "received", "payment_id": 4}`))
	})

	resp, err := client.VerifySlip(context.Background(), VerifySlipRequest{
		OrderID:  12,
		Amount:   decimal.RequireFromString("1500.50"),
		Filename: "slip.png",
		File:     strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, uint(4), resp.PaymentID)
}
