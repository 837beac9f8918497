package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/cache"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/mq"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

func purchaseBackend(t *testing.T, status int, body string) (*api.Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/api", srv.Client()), &calls
}

func festival() *model.Event {
	return &model.Event{ID: 1, TicketTypes: []model.TicketType{{ID: 10, Name: "GA", TotalQuantity: 100, SoldQuantity: 95}}}
}

func TestPurchaseWorkflowPublishesSubmission(t *testing.T) {
	client, calls := purchaseBackend(t, http.StatusCreated, `{"success":true,"orderId":77}`)
	pub := &mq.RecordingPublisher{}
	w := NewPurchaseWorkflow(pub, zap.NewNop())
	buyer := &model.Identity{ID: 5, Role: model.RoleUser}

	flow, err := w.Purchase(context.Background(), festival(), buyer, client, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, uint(77), flow.OrderID())

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, mq.ActivityPurchaseSubmitted, msgs[0].Kind)
	assert.Equal(t, uint(77), msgs[0].OrderID)
	assert.Equal(t, uint(5), msgs[0].UserID)
	assert.Equal(t, 5, msgs[0].Quantity)
}

func TestPurchaseWorkflowGuardSkipsBackendAndBroker(t *testing.T) {
	client, calls := purchaseBackend(t, http.StatusCreated, `{"success":true,"orderId":77}`)
	pub := &mq.RecordingPublisher{}
	w := NewPurchaseWorkflow(pub, zap.NewNop())

	_, err := w.Purchase(context.Background(), festival(), nil, client, 10, 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientRemaining)
	assert.Zero(t, *calls)
	assert.Empty(t, pub.Messages())
}

func TestPurchaseWorkflowBackendFailure(t *testing.T) {
	client, _ := purchaseBackend(t, http.StatusBadRequest, `{"error":"Not enough tickets"}`)
	pub := &mq.RecordingPublisher{}
	w := NewPurchaseWorkflow(pub, zap.NewNop())

	flow, err := w.Purchase(context.Background(), festival(), nil, client, 10, 2)
	require.Error(t, err)
	assert.Equal(t, domain.StateQuantityChosen, flow.State())

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, mq.ActivityPurchaseFailed, msgs[0].Kind)
	assert.Equal(t, "Not enough tickets", msgs[0].Detail)
}

func TestPurchaseResult(t *testing.T) {
	assert.Equal(t, PurchaseResultSuccess, purchaseResult(nil))
	assert.Equal(t, PurchaseResultGuarded, purchaseResult(domain.ErrTicketUnavailable))
	assert.Equal(t, PurchaseResultDuplicate, purchaseResult(domain.ErrAlreadySubmitting))
	assert.Equal(t, PurchaseResultBackendError, purchaseResult(&api.APIError{StatusCode: 500}))
}

func TestSessionWorkflowLogoutPublishesOnlyForIdentity(t *testing.T) {
	storage := cache.NewMemoryCache()
	sessions := domain.NewSessionService(storage, api.NewClient("http://127.0.0.1:0/api", nil), zap.NewNop())
	pub := &mq.RecordingPublisher{}
	w := NewSessionWorkflow(sessions, pub, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, storage.SaveSession(ctx, "sid", "tok", `{"id":1,"role":"USER"}`))
	require.NoError(t, w.Logout(ctx, domain.Session{ID: "anon"}))
	assert.Empty(t, pub.Messages())

	require.NoError(t, w.Logout(ctx, domain.Session{ID: "sid", Identity: &model.Identity{ID: 1, Role: model.RoleUser}}))
	require.Len(t, pub.Messages(), 1)
	assert.Equal(t, mq.ActivityLogout, pub.Messages()[0].Kind)
	assert.Zero(t, storage.Len())
}
